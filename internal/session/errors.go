package session

import "errors"

var (
	// ErrSessionNotFound: у пользователя нет активной тренировки
	ErrSessionNotFound = errors.New("активная тренировка не найдена")
	// ErrNoPreviousWeight: для текущего подхода ещё нет записанного веса
	ErrNoPreviousWeight = errors.New("предыдущий вес не найден")
	// ErrInvalidWeight: вес не число или не больше нуля
	ErrInvalidWeight = errors.New("некорректный вес")
	// ErrEmptySession: в плане тренировки нет ни одного подхода
	ErrEmptySession = errors.New("в тренировке нет подходов")
)
