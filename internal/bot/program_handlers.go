package bot

import (
	"context"
	"errors"

	"liftbot/internal/i18n"
	"liftbot/internal/models"
	"liftbot/internal/training"
)

// startProgramInput просит прислать программу текстом
func (b *Bot) startProgramInput(ctx context.Context, chatID int64, lang i18n.Language) {
	b.convs.set(chatID, Conversation{Kind: ParserAwaitingText})
	b.sendMessage(ctx, chatID, i18n.T("program_format_help", lang))
}

// handleProgramText разбирает программу и показывает её перед сохранением.
// Новый текст в режиме подтверждения заменяет черновик.
func (b *Bot) handleProgramText(ctx context.Context, chatID int64, lang i18n.Language, text string) {
	now := b.now()
	program, err := training.ParseAt(text, now)
	var formatErr *training.FormatError
	if errors.As(err, &formatErr) {
		b.convs.set(chatID, Conversation{Kind: ParserAwaitingText})
		b.sendMessage(ctx, chatID, i18n.Tf("parse_error", lang, formatErr.Reason)+"\n\n"+i18n.T("program_format_help", lang))
		return
	}
	if err != nil {
		b.sendGenericError(ctx, chatID, lang, err)
		return
	}
	if err := validateSchedule(program); err != nil {
		b.sendMessage(ctx, chatID, i18n.Tf("validation_error", lang, err.Error()))
		return
	}

	program.Name = i18n.Tf("program_default_name", lang, now.Format("02.01.2006"))
	b.convs.set(chatID, Conversation{Kind: ProgramAwaitingSave, Draft: program})
	b.sendChoices(ctx, chatID, i18n.Tf("program_preview", lang, formatSchedule(program, lang)), saveProgramChoices(lang))
}

// handleSaveProgram сохраняет черновик и предлагает начать сегодняшнюю тренировку
func (b *Bot) handleSaveProgram(ctx context.Context, chatID int64, lang i18n.Language) {
	conv := b.convs.get(chatID)
	if conv.Kind != ProgramAwaitingSave || conv.Draft == nil {
		b.startProgramInput(ctx, chatID, lang)
		return
	}

	program := conv.Draft
	id, err := b.repo.Schedule.Save(ctx, chatID, program)
	if err != nil {
		b.sendGenericError(ctx, chatID, lang, err)
		return
	}
	b.convs.reset(chatID)
	b.logger.Info("программа сохранена", "chat_id", chatID, "schedule_id", id, "days", program.Len())

	b.sendMainMenu(ctx, chatID, lang, i18n.Tf("program_saved", lang, program.Name))

	today := models.DayOf(b.now())
	if program.Has(today) {
		summary := models.ScheduleSummary{ID: id, Name: program.Name, Kind: program.Kind}
		b.sendChoices(ctx, chatID, i18n.Tf("choose_training", lang, dayName(today, lang)),
			[][]Choice{{startDayChoice(lang, summary, today)}})
	}
}
