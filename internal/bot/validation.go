package bot

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"liftbot/internal/models"
	"liftbot/internal/training"
)

// ValidationError: ошибка проверки пользовательского ввода
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

const (
	maxSets         = training.MaxSets
	maxReps         = 1000
	maxExerciseName = 100
	maxWorkoutName  = 64
	maxWorkouts     = 7
)

// validateSets проверяет количество подходов
func validateSets(sets int) error {
	if sets <= 0 {
		return ValidationError{Field: "sets", Message: "Количество подходов должно быть положительным"}
	}
	if sets > maxSets {
		return ValidationError{Field: "sets", Message: fmt.Sprintf("Слишком много подходов (максимум %d)", maxSets)}
	}
	return nil
}

// validateReps проверяет целевое число повторений
func validateReps(reps int) error {
	if reps <= 0 {
		return ValidationError{Field: "reps", Message: "Количество повторений должно быть положительным"}
	}
	if reps > maxReps {
		return ValidationError{Field: "reps", Message: fmt.Sprintf("Слишком много повторений (максимум %d)", maxReps)}
	}
	return nil
}

// validateExerciseName проверяет название упражнения
func validateExerciseName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "exercise_name", Message: "Название упражнения не может быть пустым"}
	}
	if utf8.RuneCountInString(name) > maxExerciseName {
		return ValidationError{Field: "exercise_name", Message: fmt.Sprintf("Название «%s» слишком длинное (максимум %d символов)", truncateString(name, 20), maxExerciseName)}
	}
	return nil
}

// validateWorkoutName проверяет название тренировки
func validateWorkoutName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "workout_name", Message: "Название тренировки не может быть пустым"}
	}
	if utf8.RuneCountInString(name) > maxWorkoutName {
		return ValidationError{Field: "workout_name", Message: fmt.Sprintf("Название слишком длинное (максимум %d символов)", maxWorkoutName)}
	}
	return nil
}

// validateWorkoutNumber проверяет номер тренировки
func validateWorkoutNumber(n int) error {
	if n < 1 || n > maxWorkouts {
		return ValidationError{Field: "workout_number", Message: fmt.Sprintf("Номер тренировки должен быть от 1 до %d", maxWorkouts)}
	}
	return nil
}

// validateEntries проверяет упражнения одного дня
func validateEntries(entries []models.ScheduleEntry) error {
	for _, e := range entries {
		if err := validateExerciseName(e.ExerciseName); err != nil {
			return err
		}
		if err := validateSets(e.SetCount); err != nil {
			return ValidationError{Field: "sets", Message: fmt.Sprintf("%s: %s", e.ExerciseName, err)}
		}
		for _, r := range e.Reps {
			if err := validateReps(r); err != nil {
				return ValidationError{Field: "reps", Message: fmt.Sprintf("%s: %s", e.ExerciseName, err)}
			}
		}
	}
	return nil
}

// validateSchedule проверяет все дни расписания
func validateSchedule(s *models.Schedule) error {
	for _, day := range s.Days() {
		if err := validateEntries(s.Entries(day)); err != nil {
			return err
		}
	}
	return nil
}
