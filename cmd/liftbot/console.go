package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"liftbot/internal/bot"
)

var (
	consoleChatID int64
	consoleLang   string
	consoleOutDir string
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Поговорить с ботом в терминале",
	Long: `Запускает того же бота без Telegram.

Команды вводятся как в Telegram (/start, /train), кнопки нажимаются
вводом "!данные", строка с "\" в конце продолжается на следующей.`,
	RunE: runConsole,
}

func init() {
	consoleCmd.Flags().Int64Var(&consoleChatID, "chat", 1, "идентификатор пользователя")
	consoleCmd.Flags().StringVar(&consoleLang, "lang", "ru", "язык (ru, en)")
	consoleCmd.Flags().StringVar(&consoleOutDir, "out", ".", "каталог для выгрузок")
}

func runConsole(cmd *cobra.Command, _ []string) error {
	// логи в stderr, чтобы не смешивались с диалогом
	cfg, logger, err := loadConfig(os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	repo, closeDB, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	m := bot.NewConsoleMessenger(os.Stdout, consoleOutDir, bot.IsTerminal(os.Stdout))
	b := bot.New(m, repo, logger)

	fmt.Fprintln(os.Stdout, "liftbot: /start для начала, Ctrl+D для выхода")
	return bot.RunConsole(ctx, os.Stdin, m, consoleChatID, consoleLang, b.Handle)
}
