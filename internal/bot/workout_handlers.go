package bot

import (
	"context"
	"errors"
	"strings"

	"liftbot/internal/i18n"
	"liftbot/internal/models"
	"liftbot/internal/training"
)

// startWorkoutBuilder начинает сборку тренировок по кнопкам
func (b *Bot) startWorkoutBuilder(ctx context.Context, chatID int64, lang i18n.Language) {
	b.convs.reset(chatID)
	b.sendChoices(ctx, chatID, i18n.T("workout_count_prompt", lang), workoutCountChoices())
}

// handleWorkoutCount показывает кнопки тренировок 1..n, существующие подписаны названием
func (b *Bot) handleWorkoutCount(ctx context.Context, chatID int64, lang i18n.Language, count int) {
	if err := validateWorkoutNumber(count); err != nil {
		b.sendMessage(ctx, chatID, i18n.Tf("validation_error", lang, err.Error()))
		return
	}

	names, err := b.workoutNames(ctx, chatID)
	if err != nil {
		b.sendGenericError(ctx, chatID, lang, err)
		return
	}

	rows := make([][]Choice, 0, count)
	for n := 1; n <= count; n++ {
		label := i18n.Tf("btn_create_workout", lang, n)
		if name, ok := names[n]; ok {
			label = i18n.Tf("btn_edit_workout", lang, n, name)
		}
		rows = append(rows, []Choice{{Label: label, Data: choiceData("create_workout", int64(n))}})
	}
	b.sendChoices(ctx, chatID, i18n.T("workout_pick_prompt", lang), rows)
}

func (b *Bot) workoutNames(ctx context.Context, chatID int64) (map[int]string, error) {
	list, err := b.repo.Schedule.List(ctx, chatID)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string)
	for _, s := range list {
		if s.Kind == models.KindWorkout {
			names[s.Number] = s.Name
		}
	}
	return names, nil
}

func (b *Bot) handleCreateWorkout(ctx context.Context, chatID int64, lang i18n.Language, number int) {
	if err := validateWorkoutNumber(number); err != nil {
		b.sendMessage(ctx, chatID, i18n.Tf("validation_error", lang, err.Error()))
		return
	}
	b.convs.set(chatID, Conversation{Kind: WorkoutAwaitingName, WorkoutNumber: number})
	b.sendMessage(ctx, chatID, i18n.Tf("workout_name_prompt", lang, number))
}

func (b *Bot) handleWorkoutName(ctx context.Context, chatID int64, lang i18n.Language, conv Conversation, text string) {
	if err := validateWorkoutName(text); err != nil {
		b.sendMessage(ctx, chatID, i18n.Tf("validation_error", lang, err.Error()))
		return
	}
	name := strings.TrimSpace(text)
	b.convs.set(chatID, Conversation{Kind: WorkoutAwaitingExercises, WorkoutNumber: conv.WorkoutNumber, WorkoutName: name})
	b.sendMessage(ctx, chatID, i18n.Tf("workout_exercises_prompt", lang, name))
}

// handleWorkoutExercises разбирает упражнения и просит подтверждения.
// Текст, присланный вместо подтверждения, заменяет черновик.
func (b *Bot) handleWorkoutExercises(ctx context.Context, chatID int64, lang i18n.Language, conv Conversation, text string) {
	entries, err := training.ParseExercises(text)
	var formatErr *training.FormatError
	if errors.As(err, &formatErr) {
		b.sendMessage(ctx, chatID, i18n.Tf("parse_error", lang, formatErr.Reason))
		return
	}
	if err != nil {
		b.sendGenericError(ctx, chatID, lang, err)
		return
	}
	if err := validateEntries(entries); err != nil {
		b.sendMessage(ctx, chatID, i18n.Tf("validation_error", lang, err.Error()))
		return
	}

	draft := models.NewSchedule(conv.WorkoutName, models.KindWorkout)
	draft.Number = conv.WorkoutNumber
	draft.Set(models.AnyDay, entries)

	conv.Kind = WorkoutAwaitingConfirmation
	conv.Draft = draft
	b.convs.set(chatID, conv)
	b.sendChoices(ctx, chatID,
		i18n.Tf("workout_preview", lang, conv.WorkoutNumber, conv.WorkoutName, formatSchedule(draft, lang)),
		confirmWorkoutChoices(lang),
	)
}

// handleConfirmWorkout сохраняет тренировку, заменяя прежнюю с тем же номером
func (b *Bot) handleConfirmWorkout(ctx context.Context, chatID int64, lang i18n.Language) {
	conv := b.convs.get(chatID)
	if conv.Kind != WorkoutAwaitingConfirmation || conv.Draft == nil {
		b.startWorkoutBuilder(ctx, chatID, lang)
		return
	}

	id, err := b.repo.Schedule.Save(ctx, chatID, conv.Draft)
	if err != nil {
		b.sendGenericError(ctx, chatID, lang, err)
		return
	}
	b.convs.reset(chatID)
	b.logger.Info("тренировка сохранена", "chat_id", chatID, "schedule_id", id, "number", conv.WorkoutNumber)

	b.sendChoices(ctx, chatID,
		i18n.Tf("workout_saved", lang, conv.WorkoutNumber, conv.WorkoutName),
		[][]Choice{{startWorkoutChoice(lang, conv.WorkoutNumber, conv.WorkoutName)}},
	)
}

// handleRejectWorkout возвращает к вводу упражнений
func (b *Bot) handleRejectWorkout(ctx context.Context, chatID int64, lang i18n.Language) {
	conv := b.convs.get(chatID)
	if conv.WorkoutNumber == 0 {
		b.startWorkoutBuilder(ctx, chatID, lang)
		return
	}
	conv.Kind = WorkoutAwaitingExercises
	conv.Draft = nil
	b.convs.set(chatID, conv)
	b.sendMessage(ctx, chatID, i18n.Tf("workout_exercises_prompt", lang, conv.WorkoutName))
}
