package models

import "time"

// SubjectKey: идентичность, под которой хранится и ищется история весов.
// WorkoutNumber = 0 означает общий ключ по названию упражнения.
type SubjectKey struct {
	UserID        int64
	WorkoutNumber int
	Exercise      string
	SetNumber     int
}

// WeightObservation: один записанный результат подхода
type WeightObservation struct {
	ID         int64
	Key        SubjectKey
	Weight     float64
	RecordedAt time.Time
	SessionID  string
	Day        Day
}

// ExerciseStat: строка статистики: упражнение и лучший из последних весов
type ExerciseStat struct {
	Exercise string
	Weight   float64
}

// User: пользователь бота
type User struct {
	ID        int64
	Username  string
	Language  string
	CreatedAt time.Time
}
