package session

import (
	"sync"
	"time"

	"liftbot/internal/models"
)

// Cursor: позиция пользователя в развёрнутой последовательности подходов
type Cursor struct {
	ID         string
	UserID     int64
	Title      string
	Day        models.Day
	ScheduleID int64
	Slots      []models.Slot
	Position   int
	Keys       KeyStrategy
	StartedAt  time.Time
}

// Done сообщает, что все подходы записаны
func (c *Cursor) Done() bool {
	return c.Position >= len(c.Slots)
}

// Current возвращает подход, ожидающий вес
func (c *Cursor) Current() models.Slot {
	return c.Slots[c.Position]
}

// CursorStore хранит курсоры активных тренировок по пользователю
type CursorStore interface {
	Get(userID int64) (*Cursor, bool)
	Set(userID int64, cursor *Cursor)
	Delete(userID int64)
}

// MemoryStore: курсоры в памяти процесса; после рестарта тренировку нужно начать заново
type MemoryStore struct {
	mu      sync.RWMutex
	cursors map[int64]*Cursor
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cursors: make(map[int64]*Cursor)}
}

func (s *MemoryStore) Get(userID int64) (*Cursor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cursors[userID]
	return c, ok
}

func (s *MemoryStore) Set(userID int64, cursor *Cursor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[userID] = cursor
}

func (s *MemoryStore) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cursors, userID)
}

// Len: количество активных тренировок
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cursors)
}
