package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Lego1st/quizzess/internal/config"
	pgmigrations "github.com/Lego1st/quizzess/internal/infra/postgres/migrations"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the quiz mirror schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrationsWithConfig(cmd.Context(), opts.cfg)
		},
	}
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		slog.Info("mirror schema up to date")
		return nil
	}
	slog.Info("migrations applied", "group", group.ID, "migrations", len(group.Migrations))
	return nil
}
