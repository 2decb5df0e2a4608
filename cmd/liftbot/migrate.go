package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"liftbot/internal/repository"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Миграции схемы базы данных",
}

func init() {
	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Применить все миграции",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, logger, err := loadConfig(os.Stderr)
				if err != nil {
					return err
				}
				if err := repository.Migrate(cfg.Storage); err != nil {
					return err
				}
				logger.Info("миграции применены")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Откатить все миграции",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, logger, err := loadConfig(os.Stderr)
				if err != nil {
					return err
				}
				if err := repository.MigrateDown(cfg.Storage); err != nil {
					return err
				}
				logger.Info("миграции откачены")
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Показать версию схемы",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, _, err := loadConfig(os.Stderr)
				if err != nil {
					return err
				}
				version, dirty, err := repository.MigrationVersion(cfg.Storage)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "версия %d", version)
				if dirty {
					fmt.Fprint(cmd.OutOrStdout(), " (dirty)")
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			},
		},
	)
}
