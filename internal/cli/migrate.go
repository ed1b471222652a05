package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kirinyoku/tablebook/internal/config"
	"github.com/kirinyoku/tablebook/internal/postgres"
	postgresrepo "github.com/kirinyoku/tablebook/internal/repository/postgres"
)

func newMigrateCmd(logger func() *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the postgres schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()

			cfg, err := config.New()
			if err != nil {
				return err
			}
			if cfg.Storage != config.StoragePostgres {
				return errors.New("migrate needs STORAGE=postgres")
			}

			pool, err := postgres.New(cmd.Context(), postgres.Config{DSN: cfg.Postgres.DSN()})
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgresrepo.Migrate(cmd.Context(), pool); err != nil {
				return err
			}

			log.Info("schema is up to date", "database", cfg.Postgres.Name)
			return nil
		},
	}
}
