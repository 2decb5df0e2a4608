package models

import (
	"strings"
	"time"
)

// ScheduleKind различает программы по дням и тренировки, собранные по кнопкам
type ScheduleKind string

const (
	KindProgram ScheduleKind = "program"
	KindWorkout ScheduleKind = "workout"
)

// ScheduleEntry: одно упражнение внутри дня расписания
type ScheduleEntry struct {
	ExerciseName string
	SetCount     int
	OrderIndex   int
	// Reps: целевые повторения по подходам; пусто, если неизвестны
	Reps []int
}

// TargetReps возвращает целевые повторения для подхода (1..SetCount) или 0
func (e ScheduleEntry) TargetReps(setNumber int) int {
	if setNumber < 1 || setNumber > len(e.Reps) {
		return 0
	}
	return e.Reps[setNumber-1]
}

// Slot: одна единица работы в сессии: упражнение и номер подхода
type Slot struct {
	Exercise   string
	SetNumber  int
	SetCount   int
	TargetReps int
}

// Schedule: именованное упорядоченное отображение день → упражнения.
// Порядок дней: порядок первой вставки; упражнения идут по OrderIndex.
type Schedule struct {
	ID        int64
	OwnerID   int64
	Name      string
	Kind      ScheduleKind
	Number    int
	CreatedAt time.Time

	days    []Day
	entries map[Day][]ScheduleEntry
}

// NewSchedule создаёт пустое расписание
func NewSchedule(name string, kind ScheduleKind) *Schedule {
	return &Schedule{Name: name, Kind: kind, entries: make(map[Day][]ScheduleEntry)}
}

// Set заменяет упражнения дня целиком; OrderIndex пересчитывается подряд с нуля
func (s *Schedule) Set(day Day, entries []ScheduleEntry) {
	if s.entries == nil {
		s.entries = make(map[Day][]ScheduleEntry)
	}
	if _, ok := s.entries[day]; !ok {
		s.days = append(s.days, day)
	}
	s.entries[day] = reindex(entries)
}

// Append добавляет упражнения в конец дня
func (s *Schedule) Append(day Day, entries ...ScheduleEntry) {
	merged := append(append([]ScheduleEntry(nil), s.entries[day]...), entries...)
	s.Set(day, merged)
}

// Days возвращает дни в порядке вставки
func (s *Schedule) Days() []Day {
	return append([]Day(nil), s.days...)
}

// Entries возвращает копию упражнений дня
func (s *Schedule) Entries(day Day) []ScheduleEntry {
	return append([]ScheduleEntry(nil), s.entries[day]...)
}

// Has сообщает, есть ли в расписании упражнения на день
func (s *Schedule) Has(day Day) bool {
	return len(s.entries[day]) > 0
}

// Len: количество дней
func (s *Schedule) Len() int {
	return len(s.days)
}

// Empty сообщает, что в расписании нет ни одного упражнения
func (s *Schedule) Empty() bool {
	for _, d := range s.days {
		if len(s.entries[d]) > 0 {
			return false
		}
	}
	return true
}

// Slots разворачивает упражнения дня в линейную последовательность подходов
func (s *Schedule) Slots(day Day) []Slot {
	return Flatten(s.entries[day])
}

// Flatten разворачивает упражнения × подходы в одну последовательность слотов
func Flatten(entries []ScheduleEntry) []Slot {
	var slots []Slot
	for _, e := range entries {
		for set := 1; set <= e.SetCount; set++ {
			slots = append(slots, Slot{
				Exercise:   e.ExerciseName,
				SetNumber:  set,
				SetCount:   e.SetCount,
				TargetReps: e.TargetReps(set),
			})
		}
	}
	return slots
}

func reindex(entries []ScheduleEntry) []ScheduleEntry {
	out := make([]ScheduleEntry, len(entries))
	for i, e := range entries {
		e.ExerciseName = strings.TrimSpace(e.ExerciseName)
		e.OrderIndex = i
		out[i] = e
	}
	return out
}

// ScheduleSummary: строка списка расписаний пользователя
type ScheduleSummary struct {
	ID        int64
	Name      string
	Kind      ScheduleKind
	Number    int
	Days      []Day
	CreatedAt time.Time
}
