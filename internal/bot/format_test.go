package bot

import (
	"strings"
	"testing"
	"time"

	"liftbot/internal/i18n"
	"liftbot/internal/models"
	"liftbot/internal/session"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{42 * time.Minute, "0:42"},
		{65*time.Minute + 40*time.Second, "1:06"},
		{-time.Minute, "0:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatWeight(t *testing.T) {
	tests := map[float64]string{60: "60", 62.5: "62.5", 0.25: "0.25"}
	for in, want := range tests {
		if got := formatWeight(in); got != want {
			t.Errorf("formatWeight(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatPrompt(t *testing.T) {
	if err := i18n.Load(); err != nil {
		t.Fatalf("i18n.Load() error = %v", err)
	}

	first := session.Prompt{
		Slot:        models.Slot{Exercise: "Присед", SetNumber: 1, SetCount: 4, TargetReps: 20},
		Total:       7,
		NewExercise: true,
	}
	text := formatPrompt(first, i18n.LangRussian)
	for _, want := range []string{"Присед", "Подход 1 из 4", "20 повторений", "1/7", i18n.T("enter_weight", i18n.LangRussian)} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt %q does not contain %q", text, want)
		}
	}
	if strings.Contains(text, i18n.T("prompt_next_exercise", i18n.LangRussian)) {
		t.Error("first prompt should not announce the next exercise")
	}

	next := session.Prompt{
		Slot:        models.Slot{Exercise: "Жим ног", SetNumber: 1, SetCount: 3},
		Position:    4,
		Total:       7,
		Previous:    120,
		HasPrevious: true,
		NewExercise: true,
	}
	text = formatPrompt(next, i18n.LangRussian)
	for _, want := range []string{i18n.T("prompt_next_exercise", i18n.LangRussian), "120 кг", "5/7"} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt %q does not contain %q", text, want)
		}
	}
}

func TestFormatSchedule(t *testing.T) {
	if err := i18n.Load(); err != nil {
		t.Fatalf("i18n.Load() error = %v", err)
	}
	s := models.NewSchedule("", models.KindProgram)
	s.Set(models.Friday, []models.ScheduleEntry{{ExerciseName: "Гакк-присед", SetCount: 4, Reps: []int{20, 16, 14, 12}}})
	s.Set(models.Monday, []models.ScheduleEntry{{ExerciseName: "Жим", SetCount: 3}})

	text := formatSchedule(s, i18n.LangRussian)
	if strings.Index(text, "Пятница") > strings.Index(text, "Понедельник") {
		t.Errorf("days should keep insertion order:\n%s", text)
	}
	if !strings.Contains(text, "1. Гакк-присед, 4 подх. (повторения: 20-16-14-12)") {
		t.Errorf("unexpected entry line:\n%s", text)
	}
}
