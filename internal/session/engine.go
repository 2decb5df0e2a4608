package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"liftbot/internal/models"
)

// History: хранилище истории весов (только добавление)
type History interface {
	Append(ctx context.Context, obs models.WeightObservation) (int64, error)
	MostRecent(ctx context.Context, key models.SubjectKey) (float64, bool, error)
}

// Presenter показывает пользователю очередной подход и итог тренировки
type Presenter interface {
	ShowPrompt(ctx context.Context, userID int64, prompt Prompt) error
	ShowComplete(ctx context.Context, userID int64, summary Summary) error
}

// Plan: то, с чего начинается тренировка
type Plan struct {
	Title      string
	Day        models.Day
	ScheduleID int64
	Slots      []models.Slot
	Keys       KeyStrategy
}

// Prompt: описание подхода, ожидающего вес
type Prompt struct {
	SessionID   string
	Title       string
	Slot        models.Slot
	Position    int
	Total       int
	Previous    float64
	HasPrevious bool
	// NewExercise: первый подход очередного упражнения
	NewExercise bool
}

// Summary: итог завершённой тренировки
type Summary struct {
	SessionID string
	Title     string
	Day       models.Day
	Sets      int
	Exercises int
	Duration  time.Duration
}

// Ack: результат записи веса
type Ack struct {
	Observation models.WeightObservation
	Next        *Prompt
	Completed   bool
	Summary     *Summary
}

// Engine ведёт пользователя по подходам тренировки
type Engine struct {
	store     CursorStore
	history   History
	presenter Presenter
	logger    *slog.Logger
	now       func() time.Time

	mu    sync.Mutex
	locks map[int64]*userLock
}

// userLock живёт в карте, пока его кто-то держит или ждёт
type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewEngine(store CursorStore, history History, presenter Presenter, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if presenter == nil {
		presenter = silentPresenter{}
	}
	return &Engine{
		store:     store,
		history:   history,
		presenter: presenter,
		logger:    logger,
		now:       time.Now,
		locks:     make(map[int64]*userLock),
	}
}

// lockUser сериализует операции одного пользователя, не задевая остальных
func (e *Engine) lockUser(userID int64) func() {
	e.mu.Lock()
	l, ok := e.locks[userID]
	if !ok {
		l = &userLock{}
		e.locks[userID] = l
	}
	l.refs++
	e.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		e.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(e.locks, userID)
		}
		e.mu.Unlock()
	}
}

// StartSession заменяет текущую тренировку пользователя новой и показывает первый подход
func (e *Engine) StartSession(ctx context.Context, userID int64, plan Plan) (Prompt, error) {
	if len(plan.Slots) == 0 {
		return Prompt{}, ErrEmptySession
	}
	keys := plan.Keys
	if keys == nil {
		keys = PlainExercise{}
	}

	defer e.lockUser(userID)()

	cursor := &Cursor{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      plan.Title,
		Day:        plan.Day,
		ScheduleID: plan.ScheduleID,
		Slots:      append([]models.Slot(nil), plan.Slots...),
		Keys:       keys,
		StartedAt:  e.now(),
	}

	prompt, err := e.prompt(ctx, cursor)
	if err != nil {
		return Prompt{}, err
	}
	e.store.Set(userID, cursor)

	e.logger.Info("тренировка начата",
		"user_id", userID,
		"session_id", cursor.ID,
		"title", cursor.Title,
		"slots", len(cursor.Slots),
	)
	e.show(ctx, userID, prompt)
	return prompt, nil
}

// CurrentPrompt возвращает подход, ожидающий вес, с последним известным весом
func (e *Engine) CurrentPrompt(ctx context.Context, userID int64) (Prompt, error) {
	defer e.lockUser(userID)()

	cursor, ok := e.store.Get(userID)
	if !ok {
		return Prompt{}, ErrSessionNotFound
	}
	return e.prompt(ctx, cursor)
}

// RecordWeight записывает вес текущего подхода и переходит к следующему
func (e *Engine) RecordWeight(ctx context.Context, userID int64, weight float64) (Ack, error) {
	defer e.lockUser(userID)()

	cursor, ok := e.store.Get(userID)
	if !ok {
		return Ack{}, ErrSessionNotFound
	}
	if err := checkWeight(weight); err != nil {
		return Ack{}, err
	}
	return e.record(ctx, cursor, weight)
}

// ConfirmPreviousWeight повторяет последний записанный вес текущего подхода
func (e *Engine) ConfirmPreviousWeight(ctx context.Context, userID int64) (Ack, error) {
	defer e.lockUser(userID)()

	cursor, ok := e.store.Get(userID)
	if !ok {
		return Ack{}, ErrSessionNotFound
	}

	key := cursor.Keys.Key(userID, cursor.Current())
	weight, found, err := e.history.MostRecent(ctx, key)
	if err != nil {
		return Ack{}, fmt.Errorf("последний вес: %w", err)
	}
	if !found {
		return Ack{}, ErrNoPreviousWeight
	}
	return e.record(ctx, cursor, weight)
}

// EndSession завершает тренировку без записи; true, если она была
func (e *Engine) EndSession(userID int64) bool {
	defer e.lockUser(userID)()

	cursor, ok := e.store.Get(userID)
	if !ok {
		return false
	}
	e.store.Delete(userID)
	e.logger.Info("тренировка прервана",
		"user_id", userID,
		"session_id", cursor.ID,
		"position", cursor.Position,
		"slots", len(cursor.Slots),
	)
	return true
}

// Active сообщает, идёт ли у пользователя тренировка
func (e *Engine) Active(userID int64) bool {
	_, ok := e.store.Get(userID)
	return ok
}

// record пишет наблюдение и только после успешной записи сдвигает курсор
func (e *Engine) record(ctx context.Context, cursor *Cursor, weight float64) (Ack, error) {
	slot := cursor.Current()
	obs := models.WeightObservation{
		Key:        cursor.Keys.Key(cursor.UserID, slot),
		Weight:     weight,
		RecordedAt: e.now(),
		SessionID:  cursor.ID,
		Day:        cursor.Day,
	}

	id, err := e.history.Append(ctx, obs)
	if err != nil {
		return Ack{}, fmt.Errorf("запись веса: %w", err)
	}
	obs.ID = id

	cursor.Position++
	ack := Ack{Observation: obs}

	if cursor.Done() {
		e.store.Delete(cursor.UserID)
		summary := e.summarize(cursor)
		ack.Completed = true
		ack.Summary = &summary

		e.logger.Info("тренировка завершена",
			"user_id", cursor.UserID,
			"session_id", cursor.ID,
			"sets", summary.Sets,
		)
		if err := e.presenter.ShowComplete(ctx, cursor.UserID, summary); err != nil {
			e.logger.Warn("не удалось показать итог тренировки", "user_id", cursor.UserID, "error", err)
		}
		return ack, nil
	}
	e.store.Set(cursor.UserID, cursor)

	next, err := e.prompt(ctx, cursor)
	if err != nil {
		// вес уже записан, курсор сдвинут; подсказка без предыдущего веса
		e.logger.Warn("не удалось получить предыдущий вес", "user_id", cursor.UserID, "error", err)
		next = e.bare(cursor)
	}
	ack.Next = &next
	e.show(ctx, cursor.UserID, next)
	return ack, nil
}

func (e *Engine) prompt(ctx context.Context, cursor *Cursor) (Prompt, error) {
	p := e.bare(cursor)
	weight, found, err := e.history.MostRecent(ctx, cursor.Keys.Key(cursor.UserID, p.Slot))
	if err != nil {
		return Prompt{}, fmt.Errorf("последний вес: %w", err)
	}
	p.Previous, p.HasPrevious = weight, found
	return p, nil
}

func (e *Engine) bare(cursor *Cursor) Prompt {
	slot := cursor.Current()
	return Prompt{
		SessionID:   cursor.ID,
		Title:       cursor.Title,
		Slot:        slot,
		Position:    cursor.Position,
		Total:       len(cursor.Slots),
		NewExercise: cursor.Position == 0 || cursor.Slots[cursor.Position-1].Exercise != slot.Exercise,
	}
}

func (e *Engine) show(ctx context.Context, userID int64, prompt Prompt) {
	if err := e.presenter.ShowPrompt(ctx, userID, prompt); err != nil {
		e.logger.Warn("не удалось показать подход", "user_id", userID, "error", err)
	}
}

func (e *Engine) summarize(cursor *Cursor) Summary {
	exercises := 0
	for i, slot := range cursor.Slots {
		if i == 0 || cursor.Slots[i-1].Exercise != slot.Exercise {
			exercises++
		}
	}
	return Summary{
		SessionID: cursor.ID,
		Title:     cursor.Title,
		Day:       cursor.Day,
		Sets:      len(cursor.Slots),
		Exercises: exercises,
		Duration:  e.now().Sub(cursor.StartedAt),
	}
}

type silentPresenter struct{}

func (silentPresenter) ShowPrompt(context.Context, int64, Prompt) error    { return nil }
func (silentPresenter) ShowComplete(context.Context, int64, Summary) error { return nil }
