package bot

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"liftbot/internal/i18n"
	"liftbot/internal/models"
	"liftbot/internal/repository"
	"liftbot/internal/session"
)

// handleTrain предлагает тренировки на сегодня. Если подходит ровно одна,
// она начинается сразу.
func (b *Bot) handleTrain(ctx context.Context, chatID int64, lang i18n.Language) {
	list, err := b.repo.Schedule.List(ctx, chatID)
	if err != nil {
		b.sendGenericError(ctx, chatID, lang, err)
		return
	}
	if len(list) == 0 {
		b.sendChoices(ctx, chatID, i18n.T("no_programs", lang), modeChoices(lang))
		return
	}

	today := models.DayOf(b.now())
	var (
		rows  [][]Choice
		start []func()
	)
	for _, s := range list {
		switch s.Kind {
		case models.KindProgram:
			if !slices.Contains(s.Days, today) {
				continue
			}
			id := s.ID
			rows = append(rows, []Choice{startDayChoice(lang, s, today)})
			start = append(start, func() { b.startProgramDay(ctx, chatID, lang, id, today.Index()) })
		case models.KindWorkout:
			number := s.Number
			rows = append(rows, []Choice{startWorkoutChoice(lang, s.Number, scheduleTitle(s.Name, s.Kind, s.Number, lang))})
			start = append(start, func() { b.startWorkout(ctx, chatID, lang, number) })
		}
	}

	if len(start) == 1 {
		start[0]()
		return
	}
	if len(rows) == 0 {
		// на сегодня ничего нет: даём выбрать любой день любой программы
		for _, s := range list {
			title := scheduleTitle(s.Name, s.Kind, s.Number, lang)
			rows = append(rows, []Choice{{
				Label: i18n.Tf("btn_pick_program", lang, title, kindLabel(s.Kind, s.Number, lang)),
				Data:  choiceData("pick_schedule", s.ID),
			}})
		}
	}
	b.sendChoices(ctx, chatID, i18n.Tf("choose_training", lang, dayName(today, lang)), rows)
}

// startProgramDay начинает тренировку по дню программы
func (b *Bot) startProgramDay(ctx context.Context, chatID int64, lang i18n.Language, scheduleID int64, dayIndex int) {
	day, ok := models.DayByIndex(dayIndex)
	if !ok {
		b.sendMessage(ctx, chatID, i18n.T("schedule_not_found", lang))
		return
	}
	schedule, err := b.repo.Schedule.Load(ctx, chatID, scheduleID, &day)
	if errors.Is(err, repository.ErrScheduleNotFound) {
		b.sendMessage(ctx, chatID, i18n.T("schedule_not_found", lang))
		return
	}
	if err != nil {
		b.sendGenericError(ctx, chatID, lang, err)
		return
	}

	title := fmt.Sprintf("%s (%s)", scheduleTitle(schedule.Name, schedule.Kind, schedule.Number, lang), dayName(day, lang))
	b.beginSession(ctx, chatID, lang, session.Plan{
		Title:      title,
		Day:        day,
		ScheduleID: schedule.ID,
		Slots:      schedule.Slots(day),
		Keys:       session.PlainExercise{},
	}, len(schedule.Entries(day)))
}

// startWorkout начинает кнопочную тренировку; её история ведётся отдельно по номеру
func (b *Bot) startWorkout(ctx context.Context, chatID int64, lang i18n.Language, number int) {
	workout, err := b.repo.Schedule.FindWorkout(ctx, chatID, number)
	if err != nil {
		b.sendGenericError(ctx, chatID, lang, err)
		return
	}
	if workout == nil {
		b.sendMessage(ctx, chatID, i18n.T("schedule_not_found", lang))
		return
	}

	var entries []models.ScheduleEntry
	for _, day := range workout.Days() {
		entries = append(entries, workout.Entries(day)...)
	}
	b.beginSession(ctx, chatID, lang, session.Plan{
		Title:      scheduleTitle(workout.Name, workout.Kind, workout.Number, lang),
		Day:        models.AnyDay,
		ScheduleID: workout.ID,
		Slots:      models.Flatten(entries),
		Keys:       session.ScopedExercise{WorkoutNumber: number},
	}, len(entries))
}

func (b *Bot) beginSession(ctx context.Context, chatID int64, lang i18n.Language, plan session.Plan, exercises int) {
	if len(plan.Slots) == 0 {
		b.sendMessage(ctx, chatID, i18n.T("schedule_not_found", lang))
		return
	}

	b.convs.reset(chatID)
	b.sendMessage(ctx, chatID, i18n.Tf("session_started", lang, plan.Title, exercises, len(plan.Slots)))
	if _, err := b.engine.StartSession(ctx, chatID, plan); err != nil {
		b.sendGenericError(ctx, chatID, lang, err)
	}
}

// handleWeightText записывает введённый вес текущего подхода
func (b *Bot) handleWeightText(ctx context.Context, chatID int64, lang i18n.Language, text string) {
	weight, err := session.ParseWeight(text)
	if err != nil {
		b.sendMessage(ctx, chatID, i18n.T("invalid_weight", lang))
		return
	}
	_, err = b.engine.RecordWeight(ctx, chatID, weight)
	b.handleSessionError(ctx, chatID, lang, err)
}

func (b *Bot) handleConfirmWeight(ctx context.Context, chatID int64, lang i18n.Language) {
	_, err := b.engine.ConfirmPreviousWeight(ctx, chatID)
	b.handleSessionError(ctx, chatID, lang, err)
}

func (b *Bot) handleChangeWeight(ctx context.Context, chatID int64, lang i18n.Language) {
	if !b.engine.Active(chatID) {
		b.handleSessionError(ctx, chatID, lang, session.ErrSessionNotFound)
		return
	}
	b.convs.set(chatID, Conversation{Kind: SessionAwaitingWeight})
	b.sendChoices(ctx, chatID, i18n.T("enter_weight", lang), weightChoices(lang, false))
}

func (b *Bot) handleEndTraining(ctx context.Context, chatID int64, lang i18n.Language) {
	b.convs.reset(chatID)
	if !b.engine.EndSession(chatID) {
		b.sendMainMenu(ctx, chatID, lang, i18n.T("session_not_found", lang))
		return
	}
	b.sendMainMenu(ctx, chatID, lang, i18n.T("session_ended", lang))
}

// handleSessionError переводит ошибку движка в ответ пользователю.
// При ошибке записи курсор не сдвигается, поэтому ввод можно повторить.
func (b *Bot) handleSessionError(ctx context.Context, chatID int64, lang i18n.Language, err error) {
	switch {
	case err == nil:
	case errors.Is(err, session.ErrSessionNotFound):
		b.convs.reset(chatID)
		b.sendMainMenu(ctx, chatID, lang, i18n.T("session_not_found", lang))
	case errors.Is(err, session.ErrInvalidWeight):
		b.sendMessage(ctx, chatID, i18n.T("invalid_weight", lang))
	case errors.Is(err, session.ErrNoPreviousWeight):
		b.convs.set(chatID, Conversation{Kind: SessionAwaitingWeight})
		b.sendChoices(ctx, chatID, i18n.T("no_previous_weight", lang), weightChoices(lang, false))
	default:
		b.sendGenericError(ctx, chatID, lang, err)
	}
}

// sessionPresenter показывает подходы движка тренировки через мессенджер.
// Вызывается под блокировкой пользователя в движке, поэтому сам движок не трогает.
type sessionPresenter struct {
	b *Bot
}

func (p sessionPresenter) ShowPrompt(ctx context.Context, userID int64, prompt session.Prompt) error {
	lang := p.b.cachedLanguage(userID)
	kind := SessionAwaitingWeight
	if prompt.HasPrevious {
		kind = SessionAwaitingConfirmation
	}
	p.b.convs.set(userID, Conversation{Kind: kind, Previous: prompt.Previous})
	return p.b.messenger.SendChoices(ctx, userID, formatPrompt(prompt, lang), weightChoices(lang, prompt.HasPrevious))
}

func (p sessionPresenter) ShowComplete(ctx context.Context, userID int64, summary session.Summary) error {
	lang := p.b.cachedLanguage(userID)
	p.b.convs.reset(userID)
	return p.b.messenger.SendMenu(ctx, userID, formatSummary(summary, lang), mainMenu(lang))
}
