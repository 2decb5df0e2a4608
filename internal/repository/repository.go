package repository

import (
	"database/sql"
	"errors"
)

// ErrScheduleNotFound: расписания нет или оно принадлежит другому пользователю
var ErrScheduleNotFound = errors.New("расписание не найдено")

// Repository содержит все репозитории
type Repository struct {
	Schedule *ScheduleRepository
	Weight   *WeightRepository
	User     *UserRepository
}

// New создаёт новый экземпляр Repository
func New(db *sql.DB, dialect Dialect) *Repository {
	return &Repository{
		Schedule: NewScheduleRepository(db, dialect),
		Weight:   NewWeightRepository(db, dialect),
		User:     NewUserRepository(db, dialect),
	}
}
