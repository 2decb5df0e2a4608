package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"liftbot/internal/models"
)

// ScheduleRepository хранит программы и кнопочные тренировки
type ScheduleRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewScheduleRepository создаёт репозиторий расписаний
func NewScheduleRepository(db *sql.DB, dialect Dialect) *ScheduleRepository {
	return &ScheduleRepository{db: db, dialect: dialect}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Create создаёт пустое именованное расписание и возвращает его id
func (r *ScheduleRepository) Create(ctx context.Context, ownerID int64, name string, kind models.ScheduleKind, number int) (int64, error) {
	return r.create(ctx, r.db, ownerID, name, kind, number)
}

func (r *ScheduleRepository) create(ctx context.Context, q execer, ownerID int64, name string, kind models.ScheduleKind, number int) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, r.dialect.Rebind(`
		INSERT INTO schedules (owner_id, name, kind, number, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`),
		ownerID, name, string(kind), number, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("создание расписания: %w", err)
	}
	return id, nil
}

// ReplaceDay заменяет упражнения дня целиком (удаление, затем вставка)
func (r *ScheduleRepository) ReplaceDay(ctx context.Context, ownerID, scheduleID int64, day models.Day, entries []models.ScheduleEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("начало транзакции: %w", err)
	}
	defer tx.Rollback()

	if err := r.checkOwner(ctx, tx, ownerID, scheduleID); err != nil {
		return err
	}
	if err := r.replaceDay(ctx, tx, scheduleID, day, entries); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *ScheduleRepository) replaceDay(ctx context.Context, q execer, scheduleID int64, day models.Day, entries []models.ScheduleEntry) error {
	if _, err := q.ExecContext(ctx, r.dialect.Rebind(
		`DELETE FROM schedule_entries WHERE schedule_id = ? AND day = ?`),
		scheduleID, string(day),
	); err != nil {
		return fmt.Errorf("очистка дня %s: %w", day, err)
	}

	for i, e := range entries {
		name := strings.TrimSpace(e.ExerciseName)
		if name == "" || e.SetCount < 1 {
			return fmt.Errorf("упражнение #%d дня %s: пустое название или нет подходов", i+1, day)
		}
		if _, err := q.ExecContext(ctx, r.dialect.Rebind(`
			INSERT INTO schedule_entries (schedule_id, day, order_index, exercise, set_count, reps)
			VALUES (?, ?, ?, ?, ?, ?)`),
			scheduleID, string(day), i, name, e.SetCount, encodeReps(e.Reps),
		); err != nil {
			return fmt.Errorf("добавление упражнения %q: %w", name, err)
		}
	}
	return nil
}

// Save сохраняет расписание целиком в одной транзакции. Тренировка с тем же
// номером у владельца заменяется.
func (r *ScheduleRepository) Save(ctx context.Context, ownerID int64, schedule *models.Schedule) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("начало транзакции: %w", err)
	}
	defer tx.Rollback()

	if schedule.Kind == models.KindWorkout {
		var previous []int64
		rows, err := tx.QueryContext(ctx, r.dialect.Rebind(
			`SELECT id FROM schedules WHERE owner_id = ? AND kind = ? AND number = ?`),
			ownerID, string(models.KindWorkout), schedule.Number,
		)
		if err != nil {
			return 0, fmt.Errorf("поиск тренировки №%d: %w", schedule.Number, err)
		}
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return 0, err
			}
			previous = append(previous, id)
		}
		rows.Close()
		for _, id := range previous {
			if err := r.deleteSchedule(ctx, tx, id); err != nil {
				return 0, err
			}
		}
	}

	id, err := r.create(ctx, tx, ownerID, schedule.Name, schedule.Kind, schedule.Number)
	if err != nil {
		return 0, err
	}
	for _, day := range schedule.Days() {
		if err := r.replaceDay(ctx, tx, id, day, schedule.Entries(day)); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("сохранение расписания: %w", err)
	}

	schedule.ID = id
	schedule.OwnerID = ownerID
	return id, nil
}

// List возвращает расписания пользователя: сначала программы, затем тренировки по номеру
func (r *ScheduleRepository) List(ctx context.Context, ownerID int64) ([]models.ScheduleSummary, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(`
		SELECT id, name, kind, number, created_at
		FROM schedules
		WHERE owner_id = ?
		ORDER BY kind, number, id`), ownerID)
	if err != nil {
		return nil, fmt.Errorf("список расписаний: %w", err)
	}
	defer rows.Close()

	var summaries []models.ScheduleSummary
	index := make(map[int64]int)
	for rows.Next() {
		var (
			s    models.ScheduleSummary
			kind string
		)
		if err := rows.Scan(&s.ID, &s.Name, &kind, &s.Number, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Kind = models.ScheduleKind(kind)
		index[s.ID] = len(summaries)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, nil
	}

	dayRows, err := r.db.QueryContext(ctx, r.dialect.Rebind(`
		SELECT DISTINCT e.schedule_id, e.day
		FROM schedule_entries e
		JOIN schedules s ON s.id = e.schedule_id
		WHERE s.owner_id = ?`), ownerID)
	if err != nil {
		return nil, fmt.Errorf("дни расписаний: %w", err)
	}
	defer dayRows.Close()

	for dayRows.Next() {
		var (
			scheduleID int64
			day        string
		)
		if err := dayRows.Scan(&scheduleID, &day); err != nil {
			return nil, err
		}
		if i, ok := index[scheduleID]; ok {
			summaries[i].Days = append(summaries[i].Days, models.Day(day))
		}
	}
	if err := dayRows.Err(); err != nil {
		return nil, err
	}

	for i := range summaries {
		sortDays(summaries[i].Days)
	}
	return summaries, nil
}

// Load загружает расписание пользователя; day != nil ограничивает результат одним днём.
// Дни идут в порядке недели, упражнения: по order_index.
func (r *ScheduleRepository) Load(ctx context.Context, ownerID, scheduleID int64, day *models.Day) (*models.Schedule, error) {
	var (
		kind     string
		schedule = models.NewSchedule("", "")
	)
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(`
		SELECT id, owner_id, name, kind, number, created_at
		FROM schedules
		WHERE id = ? AND owner_id = ?`), scheduleID, ownerID,
	).Scan(&schedule.ID, &schedule.OwnerID, &schedule.Name, &kind, &schedule.Number, &schedule.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("загрузка расписания: %w", err)
	}
	schedule.Kind = models.ScheduleKind(kind)

	query := `SELECT day, exercise, set_count, reps FROM schedule_entries WHERE schedule_id = ?`
	args := []any{scheduleID}
	if day != nil {
		query += ` AND day = ?`
		args = append(args, string(*day))
	}
	query += ` ORDER BY order_index`

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("упражнения расписания: %w", err)
	}
	defer rows.Close()

	byDay := make(map[models.Day][]models.ScheduleEntry)
	var days []models.Day
	for rows.Next() {
		var (
			d    string
			e    models.ScheduleEntry
			reps string
		)
		if err := rows.Scan(&d, &e.ExerciseName, &e.SetCount, &reps); err != nil {
			return nil, err
		}
		e.Reps = decodeReps(reps)
		key := models.Day(d)
		if _, ok := byDay[key]; !ok {
			days = append(days, key)
		}
		byDay[key] = append(byDay[key], e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortDays(days)
	for _, d := range days {
		schedule.Set(d, byDay[d])
	}
	return schedule, nil
}

// FindWorkout возвращает кнопочную тренировку по номеру или nil
func (r *ScheduleRepository) FindWorkout(ctx context.Context, ownerID int64, number int) (*models.Schedule, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(`
		SELECT id FROM schedules
		WHERE owner_id = ? AND kind = ? AND number = ?
		ORDER BY id DESC
		LIMIT 1`), ownerID, string(models.KindWorkout), number,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("поиск тренировки №%d: %w", number, err)
	}
	return r.Load(ctx, ownerID, id, nil)
}

// Delete удаляет расписание вместе с упражнениями
func (r *ScheduleRepository) Delete(ctx context.Context, ownerID, scheduleID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("начало транзакции: %w", err)
	}
	defer tx.Rollback()

	if err := r.checkOwner(ctx, tx, ownerID, scheduleID); err != nil {
		return err
	}
	if err := r.deleteSchedule(ctx, tx, scheduleID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *ScheduleRepository) deleteSchedule(ctx context.Context, q execer, scheduleID int64) error {
	if _, err := q.ExecContext(ctx, r.dialect.Rebind(
		`DELETE FROM schedule_entries WHERE schedule_id = ?`), scheduleID,
	); err != nil {
		return fmt.Errorf("удаление упражнений: %w", err)
	}
	if _, err := q.ExecContext(ctx, r.dialect.Rebind(
		`DELETE FROM schedules WHERE id = ?`), scheduleID,
	); err != nil {
		return fmt.Errorf("удаление расписания: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) checkOwner(ctx context.Context, q execer, ownerID, scheduleID int64) error {
	var owner int64
	err := q.QueryRowContext(ctx, r.dialect.Rebind(
		`SELECT owner_id FROM schedules WHERE id = ?`), scheduleID,
	).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != ownerID) {
		return ErrScheduleNotFound
	}
	if err != nil {
		return fmt.Errorf("проверка владельца: %w", err)
	}
	return nil
}

func sortDays(days []models.Day) {
	sort.SliceStable(days, func(i, j int) bool { return days[i].Index() < days[j].Index() })
}

// encodeReps хранит повторения строкой "10,10,10"
func encodeReps(reps []int) string {
	parts := make([]string, len(reps))
	for i, n := range reps {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func decodeReps(s string) []int {
	if s == "" {
		return nil
	}
	var reps []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil
		}
		reps = append(reps, n)
	}
	return reps
}
