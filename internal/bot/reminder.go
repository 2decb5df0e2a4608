package bot

import (
	"context"
	"fmt"

	"github.com/robfig/cron"

	"liftbot/internal/i18n"
	"liftbot/internal/models"
)

// Reminder по расписанию cron напоминает о тренировке тем,
// у кого в программе есть упражнения на сегодня
type Reminder struct {
	bot  *Bot
	cron *cron.Cron
}

// NewReminder создаёт напоминание; spec: cron-выражение с секундами ("0 0 8 * * *")
func (b *Bot) NewReminder(spec string) (*Reminder, error) {
	r := &Reminder{bot: b, cron: cron.New()}
	if err := r.cron.AddFunc(spec, func() { r.Run(context.Background()) }); err != nil {
		return nil, fmt.Errorf("некорректное расписание напоминаний %q: %w", spec, err)
	}
	return r, nil
}

// Start запускает планировщик в фоне
func (r *Reminder) Start() {
	r.cron.Start()
	r.bot.logger.Info("напоминания запущены")
}

// Stop останавливает планировщик
func (r *Reminder) Stop() {
	r.cron.Stop()
}

// Run рассылает напоминания на сегодня и возвращает число отправленных
func (r *Reminder) Run(ctx context.Context) int {
	b := r.bot
	today := models.DayOf(b.now())

	users, err := b.repo.User.TrainingOn(ctx, today)
	if err != nil {
		b.logger.Error("не удалось получить пользователей для напоминаний", "day", today, "error", err)
		return 0
	}

	sent := 0
	for _, u := range users {
		// идёт тренировка: не мешаем
		if b.engine.Active(u.ID) {
			continue
		}
		lang := i18n.ParseLanguage(u.Language)
		err := b.messenger.SendChoices(ctx, u.ID,
			i18n.Tf("reminder", lang, dayName(today, lang)),
			[][]Choice{{{Label: i18n.T("btn_train_today", lang), Data: "train_today"}}},
		)
		if err != nil {
			b.logger.Warn("не удалось отправить напоминание", "chat_id", u.ID, "error", err)
			continue
		}
		sent++
	}

	b.logger.Info("напоминания отправлены", "day", today, "sent", sent, "users", len(users))
	return sent
}
