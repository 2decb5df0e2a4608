package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"liftbot/internal/bot"
)

var serveWorkers int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить Telegram-бота (long polling или вебхук)",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&serveWorkers, "workers", 4, "число обработчиков обновлений")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(os.Stdout)
	if err != nil {
		return err
	}
	if err := cfg.RequireBotToken(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeDB, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return fmt.Errorf("подключение к Telegram: %w", err)
	}
	api.Debug = cfg.Debug
	logger.Info("авторизован", "bot", api.Self.UserName)

	b := bot.New(bot.NewTelegramMessenger(api, logger), repo, logger)

	d := bot.NewDispatcher(serveWorkers, 64, b.Handle, logger)
	d.Start(ctx)
	submit := func(in bot.Incoming) { d.Submit(ctx, in) }

	if cfg.Reminder.Enabled {
		reminder, err := b.NewReminder(cfg.Reminder.Spec)
		if err != nil {
			return err
		}
		reminder.Start()
		defer reminder.Stop()
	}

	if cfg.WebhookEnabled() {
		if err := bot.SetWebhook(api, cfg.WebhookAddress(), cfg.Webhook.Secret); err != nil {
			return err
		}
		srv := bot.NewWebhookServer(cfg.Webhook.Path, cfg.Webhook.Secret, submit, logger).
			Serve(fmt.Sprintf(":%d", cfg.Webhook.Port))

		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("ошибка остановки сервера", "error", err)
		}
	} else {
		if err := bot.RemoveWebhook(api); err != nil {
			logger.Warn("не удалось отключить вебхук", "error", err)
		}
		bot.Poll(ctx, api, submit, logger)
	}

	d.Wait()
	logger.Info("бот остановлен")
	return nil
}
