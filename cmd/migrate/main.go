package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/erp/ecocare/internal/infrastructure/config"
	"github.com/erp/ecocare/internal/infrastructure/logger"
	"github.com/erp/ecocare/internal/infrastructure/migration"
	"github.com/erp/ecocare/migrations"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	migrationsPath string
	logLevel       string
	log            *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the ecocare database schema",
	Long: `Apply, roll back and inspect the SQL schema migrations.

Without --path the migrations embedded in the binary are used.
Connection settings come from config.toml or ECOCARE_DATABASE_* variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(logger.Config{
			Level:  logLevel,
			Format: "console",
			Output: "stdout",
		})
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migration.Migrator) error { return m.Up() })
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migration.Migrator) error { return m.Down() })
	},
}

var stepCmd = &cobra.Command{
	Use:   "step <n>",
	Short: "Apply n migrations (negative rolls back)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return withMigrator(func(m *migration.Migrator) error { return m.Steps(n) })
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migration.Migrator) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			if version == 0 {
				log.Info("No migrations applied")
				return nil
			}
			log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
			return nil
		})
	},
}

var forceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Set the schema version without running migrations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return withMigrator(func(m *migration.Migrator) error { return m.Force(version) })
	},
}

var createCmd = &cobra.Command{
	Use:   "create <name> [description]",
	Short: "Create a new up/down migration pair",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := ""
		if len(args) > 1 {
			description = args[1]
		}
		mf, err := migration.CreateMigration(sourceDir(), args[0], description)
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := migration.ListMigrations(sourceDir())
		if err != nil {
			return err
		}
		if len(names) == 0 {
			log.Info("No migrations found")
			return nil
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), "  -", name)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "path", "", "Migrations directory (default: embedded migrations)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.AddCommand(upCmd, downCmd, stepCmd, versionCmd, forceCmd, createCmd, listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// sourceDir is where create and list look for files.
func sourceDir() string {
	if migrationsPath != "" {
		return migrationsPath
	}
	return "migrations"
}

func withMigrator(run func(*migration.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	var m *migration.Migrator
	if migrationsPath != "" {
		m, err = migration.NewFromPath(db, migrationsPath, log)
	} else {
		m, err = migration.New(db, migrations.FS, log)
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	if err := run(m); err != nil {
		log.Error("Migration failed", zap.Error(err))
		return err
	}
	return nil
}
