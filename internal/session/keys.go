package session

import (
	"strings"

	"liftbot/internal/models"
)

// KeyStrategy строит ключ истории весов для подхода
type KeyStrategy interface {
	Key(userID int64, slot models.Slot) models.SubjectKey
}

// PlainExercise: ключ по названию упражнения и номеру подхода.
// История общая для всех программ пользователя.
type PlainExercise struct{}

func (PlainExercise) Key(userID int64, slot models.Slot) models.SubjectKey {
	return models.SubjectKey{
		UserID:    userID,
		Exercise:  normalizeExercise(slot.Exercise),
		SetNumber: slot.SetNumber,
	}
}

// ScopedExercise: ключ дополнительно привязан к номеру тренировки
type ScopedExercise struct {
	WorkoutNumber int
}

func (s ScopedExercise) Key(userID int64, slot models.Slot) models.SubjectKey {
	key := PlainExercise{}.Key(userID, slot)
	key.WorkoutNumber = s.WorkoutNumber
	return key
}

func normalizeExercise(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
