package main

import (
	"fmt"
	"os"

	"github.com/shenikar/incident_reporter/internal/config"
	"github.com/shenikar/incident_reporter/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrationsDir string

var rootCmd = &cobra.Command{
	Use:   "incident-reporter",
	Short: "Incident reporter - report incidents on a map and track them on a dashboard",
	Long: `incident-reporter serves the incident reporting web client and its JSON API.
Authentication and incident storage are backed by a Supabase project.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		return serve(cfg, log)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations to DATABASE_URL and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required for migrate")
		}
		return runMigrations(cfg, log)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "migrations", "migrations", "Directory with SQL migrations")
	rootCmd.AddCommand(migrateCmd)
}

// bootstrap загружает конфигурацию и создает логгер
func bootstrap() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, logger.New(cfg.LogLevel), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
