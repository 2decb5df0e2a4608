package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"liftbot/internal/models"
)

// UserRepository работает с пользователями бота
type UserRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewUserRepository создаёт репозиторий пользователей
func NewUserRepository(db *sql.DB, dialect Dialect) *UserRepository {
	return &UserRepository{db: db, dialect: dialect}
}

// Upsert регистрирует пользователя или обновляет имя и язык
func (r *UserRepository) Upsert(ctx context.Context, user models.User) error {
	if user.Language == "" {
		user.Language = "ru"
	}
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(`
		INSERT INTO users (id, username, language, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET username = excluded.username, language = excluded.language`),
		user.ID, user.Username, user.Language, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("регистрация пользователя %d: %w", user.ID, err)
	}
	return nil
}

// Get возвращает пользователя или nil, если он не зарегистрирован
func (r *UserRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(`
		SELECT id, username, language, created_at FROM users WHERE id = ?`), id,
	).Scan(&u.ID, &u.Username, &u.Language, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("пользователь %d: %w", id, err)
	}
	return &u, nil
}

// TrainingOn возвращает пользователей, у которых в программе есть упражнения на день
func (r *UserRepository) TrainingOn(ctx context.Context, day models.Day) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(`
		SELECT DISTINCT s.owner_id, COALESCE(u.username, ''), COALESCE(u.language, 'ru')
		FROM schedules s
		JOIN schedule_entries e ON e.schedule_id = s.id
		LEFT JOIN users u ON u.id = s.owner_id
		WHERE s.kind = ? AND e.day = ?
		ORDER BY s.owner_id`), string(models.KindProgram), string(day))
	if err != nil {
		return nil, fmt.Errorf("пользователи на %s: %w", day, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Language); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
