package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"liftbot/internal/i18n"
	"liftbot/internal/models"
	"liftbot/internal/session"
)

func dayName(day models.Day, lang i18n.Language) string {
	return i18n.T(fmt.Sprintf("day_%d", day.Index()), lang)
}

// scheduleTitle: имя расписания или его тип, если имени нет
func scheduleTitle(name string, kind models.ScheduleKind, number int, lang i18n.Language) string {
	if name != "" {
		return name
	}
	return kindLabel(kind, number, lang)
}

func kindLabel(kind models.ScheduleKind, number int, lang i18n.Language) string {
	if kind == models.KindWorkout {
		return i18n.Tf("kind_workout", lang, number)
	}
	return i18n.T("kind_program", lang)
}

// formatWeight печатает вес без лишних нулей: 60, 62.5
func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// formatDuration: длительность в виде "1:05" (часы:минуты)
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Round(time.Minute).Minutes())
	return fmt.Sprintf("%d:%02d", m/60, m%60)
}

func joinReps(reps []int) string {
	parts := make([]string, len(reps))
	for i, n := range reps {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "-")
}

// formatEntries печатает упражнения дня нумерованным списком
func formatEntries(sb *strings.Builder, entries []models.ScheduleEntry, lang i18n.Language) {
	for i, e := range entries {
		fmt.Fprintf(sb, "%d. %s, %s", i+1, e.ExerciseName, i18n.Tf("sets_short", lang, e.SetCount))
		if len(e.Reps) > 0 {
			fmt.Fprintf(sb, " (%s)", i18n.Tf("reps_short", lang, joinReps(e.Reps)))
		}
		sb.WriteByte('\n')
	}
}

// formatSchedule печатает расписание по дням в порядке их появления
func formatSchedule(s *models.Schedule, lang i18n.Language) string {
	var sb strings.Builder
	for _, day := range s.Days() {
		entries := s.Entries(day)
		if len(entries) == 0 {
			continue
		}
		if day != models.AnyDay {
			fmt.Fprintf(&sb, "📅 %s\n", dayName(day, lang))
		}
		formatEntries(&sb, entries, lang)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// formatPrompt печатает подход, ожидающий вес
func formatPrompt(p session.Prompt, lang i18n.Language) string {
	var lines []string
	if p.NewExercise && p.Position > 0 {
		lines = append(lines, i18n.T("prompt_next_exercise", lang))
	}
	lines = append(lines, i18n.Tf("prompt_set", lang, p.Slot.Exercise, p.Slot.SetNumber, p.Slot.SetCount))
	if p.Slot.TargetReps > 0 {
		lines = append(lines, i18n.Tf("prompt_target_reps", lang, p.Slot.TargetReps))
	}
	lines = append(lines, i18n.Tf("prompt_progress", lang, p.Position+1, p.Total))
	if p.HasPrevious {
		lines = append(lines, "", i18n.Tf("prompt_previous", lang, formatWeight(p.Previous)))
	} else {
		lines = append(lines, "", i18n.T("enter_weight", lang))
	}
	return strings.Join(lines, "\n")
}

func formatSummary(s session.Summary, lang i18n.Language) string {
	return i18n.Tf("session_complete", lang, s.Title, s.Exercises, s.Sets, formatDuration(s.Duration))
}

func formatStats(stats []models.ExerciseStat, lang i18n.Language) string {
	var sb strings.Builder
	sb.WriteString(i18n.T("stats_header", lang))
	sb.WriteByte('\n')
	for _, s := range stats {
		fmt.Fprintf(&sb, "\n• %s: %s", s.Exercise, i18n.Tf("weight_kg", lang, formatWeight(s.Weight)))
	}
	return sb.String()
}

// formatSummaries печатает список расписаний пользователя
func formatSummaries(list []models.ScheduleSummary, lang i18n.Language) string {
	var sb strings.Builder
	sb.WriteString(i18n.T("programs_header", lang))
	sb.WriteByte('\n')
	for _, s := range list {
		fmt.Fprintf(&sb, "\n• %s", scheduleTitle(s.Name, s.Kind, s.Number, lang))
		if s.Name != "" {
			fmt.Fprintf(&sb, " (%s)", kindLabel(s.Kind, s.Number, lang))
		}
		if s.Kind == models.KindProgram {
			names := make([]string, 0, len(s.Days))
			for _, d := range s.Days {
				names = append(names, dayName(d, lang))
			}
			fmt.Fprintf(&sb, ": %s", strings.Join(names, ", "))
		}
	}
	return sb.String()
}
