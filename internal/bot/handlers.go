package bot

import (
	"context"
	"errors"
	"fmt"

	"liftbot/internal/excel"
	"liftbot/internal/i18n"
	"liftbot/internal/models"
	"liftbot/internal/repository"
)

// handleStart регистрирует пользователя и показывает главное меню
func (b *Bot) handleStart(ctx context.Context, in Incoming) {
	chatID := in.ChatID
	b.convs.reset(chatID)

	user, err := b.repo.User.Get(ctx, chatID)
	if err != nil {
		b.sendGenericError(ctx, chatID, i18n.ParseLanguage(in.Lang), err)
		return
	}
	if user == nil {
		user = &models.User{ID: chatID, Language: string(i18n.ParseLanguage(in.Lang))}
	}
	if in.Username != "" {
		user.Username = in.Username
	}
	if err := b.repo.User.Upsert(ctx, *user); err != nil {
		b.logger.Warn("не удалось сохранить пользователя", "chat_id", chatID, "error", err)
	}
	lang := i18n.ParseLanguage(user.Language)
	b.langs.put(chatID, lang)

	name := user.Username
	if name == "" {
		name = i18n.T("friend", lang)
	}
	b.sendMainMenu(ctx, chatID, lang, i18n.Tf("welcome", lang, name))

	list, err := b.repo.Schedule.List(ctx, chatID)
	if err != nil {
		b.logger.Warn("не удалось загрузить программы", "chat_id", chatID, "error", err)
		return
	}
	if len(list) == 0 {
		b.sendChoices(ctx, chatID, i18n.T("choose_mode", lang), modeChoices(lang))
	}
}

// handleCancel сбрасывает текущий шаг диалога и тренировку
func (b *Bot) handleCancel(ctx context.Context, chatID int64, lang i18n.Language) {
	b.convs.reset(chatID)
	if b.engine.EndSession(chatID) {
		b.sendMainMenu(ctx, chatID, lang, i18n.T("session_ended", lang))
		return
	}
	b.sendMainMenu(ctx, chatID, lang, i18n.T("cancelled", lang))
}

// handlePrograms показывает программы и тренировки пользователя
func (b *Bot) handlePrograms(ctx context.Context, chatID int64, lang i18n.Language) {
	list, err := b.repo.Schedule.List(ctx, chatID)
	if err != nil {
		b.sendGenericError(ctx, chatID, lang, err)
		return
	}
	if len(list) == 0 {
		b.sendChoices(ctx, chatID, i18n.T("no_programs", lang), modeChoices(lang))
		return
	}

	rows := make([][]Choice, 0, len(list))
	for _, s := range list {
		title := scheduleTitle(s.Name, s.Kind, s.Number, lang)
		open := Choice{
			Label: i18n.Tf("btn_pick_program", lang, title, kindLabel(s.Kind, s.Number, lang)),
			Data:  choiceData("pick_schedule", s.ID),
		}
		if s.Kind == models.KindWorkout {
			open = startWorkoutChoice(lang, s.Number, title)
		}
		rows = append(rows, []Choice{
			open,
			{Label: i18n.Tf("btn_delete_schedule", lang, truncateString(title, 20)), Data: choiceData("delete_schedule", s.ID)},
		})
	}
	b.sendChoices(ctx, chatID, formatSummaries(list, lang), rows)
}

// handlePickSchedule показывает дни программы с кнопками старта
func (b *Bot) handlePickSchedule(ctx context.Context, chatID int64, lang i18n.Language, scheduleID int64) {
	schedule, err := b.repo.Schedule.Load(ctx, chatID, scheduleID, nil)
	if errors.Is(err, repository.ErrScheduleNotFound) {
		b.sendMessage(ctx, chatID, i18n.T("schedule_not_found", lang))
		return
	}
	if err != nil {
		b.sendGenericError(ctx, chatID, lang, err)
		return
	}

	summary := models.ScheduleSummary{ID: schedule.ID, Name: schedule.Name, Kind: schedule.Kind, Number: schedule.Number}
	title := scheduleTitle(schedule.Name, schedule.Kind, schedule.Number, lang)

	var rows [][]Choice
	for _, day := range schedule.Days() {
		if schedule.Has(day) {
			rows = append(rows, []Choice{startDayChoice(lang, summary, day)})
		}
	}
	b.sendChoices(ctx, chatID, i18n.Tf("choose_day", lang, title)+"\n\n"+formatSchedule(schedule, lang), rows)
}

// handleDeleteSchedule удаляет программу или тренировку
func (b *Bot) handleDeleteSchedule(ctx context.Context, chatID int64, lang i18n.Language, scheduleID int64) {
	schedule, err := b.repo.Schedule.Load(ctx, chatID, scheduleID, nil)
	if err == nil {
		err = b.repo.Schedule.Delete(ctx, chatID, scheduleID)
	}
	if errors.Is(err, repository.ErrScheduleNotFound) {
		b.sendMessage(ctx, chatID, i18n.T("schedule_not_found", lang))
		return
	}
	if err != nil {
		b.sendGenericError(ctx, chatID, lang, err)
		return
	}

	b.logger.Info("расписание удалено", "chat_id", chatID, "schedule_id", scheduleID)
	title := scheduleTitle(schedule.Name, schedule.Kind, schedule.Number, lang)
	b.sendMessage(ctx, chatID, i18n.Tf("schedule_deleted", lang, title))
}

// handleStats показывает лучший из последних весов по каждому упражнению
func (b *Bot) handleStats(ctx context.Context, chatID int64, lang i18n.Language) {
	stats, err := b.repo.Weight.MaxRecentPerExercise(ctx, chatID)
	if err != nil {
		b.sendGenericError(ctx, chatID, lang, err)
		return
	}
	if len(stats) == 0 {
		b.sendMessage(ctx, chatID, i18n.T("stats_empty", lang))
		return
	}
	b.sendMessage(ctx, chatID, formatStats(stats, lang))
}

// handleExport выгружает историю, статистику и программы в Excel
func (b *Bot) handleExport(ctx context.Context, chatID int64, lang i18n.Language) {
	data, err := CollectExport(ctx, b.repo, chatID)
	if err != nil {
		b.sendGenericError(ctx, chatID, lang, err)
		return
	}
	if len(data.History) == 0 && len(data.Programs) == 0 {
		b.sendMessage(ctx, chatID, i18n.T("export_empty", lang))
		return
	}

	buf, err := excel.BuildHistoryWorkbook(data)
	if err != nil {
		b.sendGenericError(ctx, chatID, lang, err)
		return
	}
	doc := Document{
		Name:    fmt.Sprintf("liftbot_%s.xlsx", b.now().Format("2006-01-02")),
		Data:    buf.Bytes(),
		Caption: i18n.T("export_caption", lang),
	}
	if err := b.messenger.SendDocument(ctx, chatID, doc); err != nil {
		b.sendGenericError(ctx, chatID, lang, err)
		return
	}
	b.logger.Info("история выгружена", "chat_id", chatID, "observations", len(data.History), "programs", len(data.Programs))
}

// CollectExport собирает историю, статистику и расписания пользователя для выгрузки
func CollectExport(ctx context.Context, repo *repository.Repository, userID int64) (excel.HistoryExport, error) {
	var data excel.HistoryExport
	var err error

	if data.History, err = repo.Weight.ListByUser(ctx, userID); err != nil {
		return data, err
	}
	if data.Stats, err = repo.Weight.MaxRecentPerExercise(ctx, userID); err != nil {
		return data, err
	}

	list, err := repo.Schedule.List(ctx, userID)
	if err != nil {
		return data, err
	}
	for _, s := range list {
		schedule, err := repo.Schedule.Load(ctx, userID, s.ID, nil)
		if err != nil {
			return data, fmt.Errorf("загрузка %d: %w", s.ID, err)
		}
		data.Programs = append(data.Programs, schedule)
	}
	return data, nil
}
