package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/counterpos/api/internal/config"
	"github.com/counterpos/api/internal/logger"
	"github.com/counterpos/api/internal/migration"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the POS database schema",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("database-url", "", "PostgreSQL connection string (default DATABASE_URL)")
	root.PersistentFlags().String("source", "", "Migrations source URL (default MIGRATIONS_PATH)")

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *migration.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			all, _ := cmd.Flags().GetBool("all")
			return withMigrator(cmd, func(m *migration.Migrator) error {
				if err := m.Down(steps, all); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
				return nil
			})
		},
	}
	downCmd.Flags().Int("steps", 1, "Number of migration steps to rollback")
	downCmd.Flags().Bool("all", false, "Rollback all applied migrations")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *migration.Migrator) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
				return nil
			})
		},
	}

	root.AddCommand(upCmd, downCmd, versionCmd)
	return root
}

func withMigrator(cmd *cobra.Command, fn func(m *migration.Migrator) error) error {
	cfg := config.Load()
	dbURL, _ := cmd.Flags().GetString("database-url")
	if dbURL == "" {
		dbURL = cfg.DatabaseURL
	}
	source, _ := cmd.Flags().GetString("source")
	if source == "" {
		source = cfg.MigrationsPath
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	m, err := migration.New(dbURL, source, log)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}
