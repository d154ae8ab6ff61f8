package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"campuscoffee/internal/platform/config"
	"campuscoffee/internal/platform/logger"
	"campuscoffee/internal/platform/postgres"
	"campuscoffee/internal/pos/service"
	"campuscoffee/internal/pos/store"
)

// app holds what every subcommand shares once the root command has loaded
// configuration.
type app struct {
	configPath string
	cfg        config.Config
	log        *slog.Logger
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "server",
		Short:         "Campus coffee point-of-sale service",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if a.configPath != "" {
				a.cfg, err = config.Load(a.configPath)
			} else {
				a.cfg, err = config.FromEnv()
			}
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.log = logger.New(a.cfg.Log)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file (environment variables override it)")

	root.AddCommand(a.serveCmd(), a.migrateCmd(), a.clearCmd())
	return root
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the database schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(postgres.Up), string(postgres.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := postgres.Up
			if len(args) == 1 {
				dir = postgres.Direction(args[0])
			}
			return a.withDB(cmd.Context(), func(ctx context.Context, db *sql.DB) error {
				if err := postgres.Migrate(ctx, db, dir); err != nil {
					return err
				}
				a.log.InfoContext(ctx, "migrations applied", "direction", string(dir))
				return nil
			})
		},
	}
}

func (a *app) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every point of sale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDB(cmd.Context(), func(ctx context.Context, db *sql.DB) error {
				svc := service.New(store.NewPostgres(db, a.cfg.Database.QueryTimeout), service.WithLogger(a.log))
				return svc.Clear(ctx)
			})
		},
	}
}

func (a *app) withDB(ctx context.Context, fn func(ctx context.Context, db *sql.DB) error) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	db, err := postgres.Open(ctx, a.cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(ctx, db)
}
