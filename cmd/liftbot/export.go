package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"liftbot/internal/bot"
	"liftbot/internal/excel"
)

var (
	exportUserID int64
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Выгрузить историю пользователя в Excel",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().Int64Var(&exportUserID, "user", 0, "идентификатор пользователя (chat ID)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "liftbot_history.xlsx", "файл выгрузки")
	exportCmd.MarkFlagRequired("user")
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(os.Stderr)
	if err != nil {
		return err
	}
	ctx := context.Background()

	repo, closeDB, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	data, err := bot.CollectExport(ctx, repo, exportUserID)
	if err != nil {
		return err
	}
	buf, err := excel.BuildHistoryWorkbook(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(exportOut, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("запись %s: %w", exportOut, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d записей, %d программ\n", exportOut, len(data.History), len(data.Programs))
	return nil
}
