package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"liftbot/internal/i18n"
	"liftbot/internal/repository"
	"liftbot/internal/session"
)

// Bot ведёт диалог с пользователем поверх любого транспорта
type Bot struct {
	messenger Messenger
	repo      *repository.Repository
	engine    *session.Engine
	convs     *conversations
	langs     *langCache
	logger    *slog.Logger
	now       func() time.Time
}

// Option настраивает Bot
type Option func(*Bot)

// WithClock подменяет часы (для "сегодня" в программе и напоминаниях)
func WithClock(now func() time.Time) Option {
	return func(b *Bot) { b.now = now }
}

// New создаёт новый экземпляр бота
func New(messenger Messenger, repo *repository.Repository, logger *slog.Logger, opts ...Option) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	if err := i18n.Load(); err != nil {
		logger.Error("не удалось загрузить локализацию", "error", err)
	}
	b := &Bot{
		messenger: messenger,
		repo:      repo,
		convs:     newConversations(),
		langs:     newLangCache(),
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.engine = session.NewEngine(
		session.NewMemoryStore(),
		repo.Weight,
		sessionPresenter{b},
		logger.With("component", "session"),
	)
	return b
}

// Handle обрабатывает одно входящее событие. События одного чата
// должны приходить последовательно.
func (b *Bot) Handle(ctx context.Context, in Incoming) {
	lang := b.language(ctx, in)

	switch {
	case in.Choice != "":
		if in.ChoiceID != "" {
			if err := b.messenger.Acknowledge(ctx, in.ChoiceID); err != nil {
				b.logger.Warn("не удалось подтвердить нажатие", "chat_id", in.ChatID, "error", err)
			}
		}
		b.handleChoice(ctx, in.ChatID, lang, in.Choice)
	case in.Command != "":
		b.handleCommand(ctx, in, lang)
	default:
		b.handleText(ctx, in.ChatID, lang, strings.TrimSpace(in.Text))
	}
}

// handleText: единая точка диспетчеризации текста по состоянию диалога
func (b *Bot) handleText(ctx context.Context, chatID int64, lang i18n.Language, text string) {
	if text == "" {
		return
	}
	if action, ok := menuAction(text); ok {
		b.handleMenu(ctx, chatID, lang, action)
		return
	}

	conv := b.convs.get(chatID)
	switch conv.Kind {
	case ParserAwaitingText, ProgramAwaitingSave:
		b.handleProgramText(ctx, chatID, lang, text)
	case WorkoutAwaitingName:
		b.handleWorkoutName(ctx, chatID, lang, conv, text)
	case WorkoutAwaitingExercises, WorkoutAwaitingConfirmation:
		b.handleWorkoutExercises(ctx, chatID, lang, conv, text)
	case SessionAwaitingWeight, SessionAwaitingConfirmation:
		b.handleWeightText(ctx, chatID, lang, text)
	default:
		b.sendMessage(ctx, chatID, i18n.T("unknown_input", lang))
	}
}

func (b *Bot) handleCommand(ctx context.Context, in Incoming, lang i18n.Language) {
	chatID := in.ChatID
	switch in.Command {
	case "start":
		b.handleStart(ctx, in)
	case "help":
		b.sendMessage(ctx, chatID, i18n.T("help", lang))
	case "train":
		b.handleTrain(ctx, chatID, lang)
	case "programs":
		b.handlePrograms(ctx, chatID, lang)
	case "stats":
		b.handleStats(ctx, chatID, lang)
	case "export":
		b.handleExport(ctx, chatID, lang)
	case "language":
		b.handleLanguagePrompt(ctx, chatID, lang)
	case "cancel":
		b.handleCancel(ctx, chatID, lang)
	default:
		b.sendMessage(ctx, chatID, i18n.T("unknown_input", lang))
	}
}

func (b *Bot) handleMenu(ctx context.Context, chatID int64, lang i18n.Language, action string) {
	switch action {
	case "menu_train":
		b.handleTrain(ctx, chatID, lang)
	case "menu_programs":
		b.handlePrograms(ctx, chatID, lang)
	case "menu_stats":
		b.handleStats(ctx, chatID, lang)
	case "menu_new_program":
		b.startProgramInput(ctx, chatID, lang)
	case "menu_workouts":
		b.startWorkoutBuilder(ctx, chatID, lang)
	case "menu_export":
		b.handleExport(ctx, chatID, lang)
	}
}

func (b *Bot) handleChoice(ctx context.Context, chatID int64, lang i18n.Language, data string) {
	action, args := parseChoice(data)
	arg := func(i int) int64 {
		if i < len(args) {
			return args[i]
		}
		return 0
	}

	switch action {
	case "mode_program":
		b.startProgramInput(ctx, chatID, lang)
	case "mode_workouts":
		b.startWorkoutBuilder(ctx, chatID, lang)
	case "save_program":
		b.handleSaveProgram(ctx, chatID, lang)
	case "cancel":
		b.handleCancel(ctx, chatID, lang)

	case "workout_count":
		b.handleWorkoutCount(ctx, chatID, lang, int(arg(0)))
	case "create_workout":
		b.handleCreateWorkout(ctx, chatID, lang, int(arg(0)))
	case "confirm_workout":
		b.handleConfirmWorkout(ctx, chatID, lang)
	case "reject_workout":
		b.handleRejectWorkout(ctx, chatID, lang)

	case "train_today":
		b.handleTrain(ctx, chatID, lang)
	case "start_workout":
		b.startWorkout(ctx, chatID, lang, int(arg(0)))
	case "pick_schedule":
		b.handlePickSchedule(ctx, chatID, lang, arg(0))
	case "start_day":
		b.startProgramDay(ctx, chatID, lang, arg(0), int(arg(1)))
	case "confirm_weight":
		b.handleConfirmWeight(ctx, chatID, lang)
	case "change_weight":
		b.handleChangeWeight(ctx, chatID, lang)
	case "end_training":
		b.handleEndTraining(ctx, chatID, lang)

	case "delete_schedule":
		b.handleDeleteSchedule(ctx, chatID, lang, arg(0))
	case "lang_ru", "lang_en":
		b.handleSetLanguage(ctx, chatID, i18n.ParseLanguage(strings.TrimPrefix(action, "lang_")))
	default:
		b.logger.Warn("неизвестная кнопка", "chat_id", chatID, "data", data)
	}
}
