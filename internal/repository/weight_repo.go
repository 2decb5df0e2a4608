package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"liftbot/internal/models"
)

// WeightRepository: история весов, только добавление
type WeightRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewWeightRepository создаёт репозиторий истории весов
func NewWeightRepository(db *sql.DB, dialect Dialect) *WeightRepository {
	return &WeightRepository{db: db, dialect: dialect}
}

// Append записывает результат подхода и возвращает id записи
func (r *WeightRepository) Append(ctx context.Context, obs models.WeightObservation) (int64, error) {
	if obs.Weight <= 0 {
		return 0, fmt.Errorf("вес должен быть больше нуля: %v", obs.Weight)
	}
	recordedAt := obs.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	var id int64
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(`
		INSERT INTO weight_observations
			(user_id, workout_number, exercise, set_number, weight, recorded_at, session_id, day)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		obs.Key.UserID, obs.Key.WorkoutNumber, obs.Key.Exercise, obs.Key.SetNumber,
		obs.Weight, recordedAt.UTC(), obs.SessionID, string(obs.Day),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("запись веса: %w", err)
	}
	return id, nil
}

// MostRecent возвращает последний вес по ключу; при равном времени побеждает поздняя запись
func (r *WeightRepository) MostRecent(ctx context.Context, key models.SubjectKey) (float64, bool, error) {
	var weight float64
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(`
		SELECT weight FROM weight_observations
		WHERE user_id = ? AND workout_number = ? AND exercise = ? AND set_number = ?
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1`),
		key.UserID, key.WorkoutNumber, key.Exercise, key.SetNumber,
	).Scan(&weight)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("последний вес: %w", err)
	}
	return weight, true, nil
}

// MaxRecentPerExercise: для каждого упражнения максимум из последних весов по подходам
func (r *WeightRepository) MaxRecentPerExercise(ctx context.Context, userID int64) ([]models.ExerciseStat, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(`
		SELECT exercise, MAX(weight)
		FROM (
			SELECT exercise, weight,
			       ROW_NUMBER() OVER (
			           PARTITION BY exercise, workout_number, set_number
			           ORDER BY recorded_at DESC, id DESC
			       ) AS rn
			FROM weight_observations
			WHERE user_id = ?
		) latest
		WHERE rn = 1
		GROUP BY exercise
		ORDER BY exercise`), userID)
	if err != nil {
		return nil, fmt.Errorf("статистика: %w", err)
	}
	defer rows.Close()

	var stats []models.ExerciseStat
	for rows.Next() {
		var s models.ExerciseStat
		if err := rows.Scan(&s.Exercise, &s.Weight); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// ListByUser возвращает всю историю пользователя в хронологическом порядке
func (r *WeightRepository) ListByUser(ctx context.Context, userID int64) ([]models.WeightObservation, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(`
		SELECT id, user_id, workout_number, exercise, set_number, weight, recorded_at, session_id, day
		FROM weight_observations
		WHERE user_id = ?
		ORDER BY recorded_at, id`), userID)
	if err != nil {
		return nil, fmt.Errorf("история весов: %w", err)
	}
	defer rows.Close()

	var history []models.WeightObservation
	for rows.Next() {
		var (
			o   models.WeightObservation
			day string
		)
		if err := rows.Scan(&o.ID, &o.Key.UserID, &o.Key.WorkoutNumber, &o.Key.Exercise,
			&o.Key.SetNumber, &o.Weight, &o.RecordedAt, &o.SessionID, &day); err != nil {
			return nil, err
		}
		o.Day = models.Day(day)
		history = append(history, o)
	}
	return history, rows.Err()
}
