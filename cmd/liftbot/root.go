package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"liftbot/internal/config"
	"liftbot/internal/repository"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "liftbot",
	Short:         "Дневник силовых тренировок в Telegram",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "путь к YAML-конфигурации")
	rootCmd.AddCommand(serveCmd, consoleCmd, migrateCmd, parseCmd, exportCmd)
}

// Execute запускает корневую команду
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %s\n", err)
		os.Exit(1)
	}
}

// loadConfig читает конфигурацию и настраивает логгер, пишущий в w
func loadConfig(w io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// openStorage применяет миграции и открывает базу
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repository.Repository, func(), error) {
	if err := repository.Migrate(cfg.Storage); err != nil {
		return nil, nil, err
	}
	db, dialect, err := repository.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("база данных подключена", "driver", cfg.Storage.Driver)
	return repository.New(db, dialect), func() { db.Close() }, nil
}
