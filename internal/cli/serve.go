package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kirinyoku/tablebook/internal/app"
	"github.com/kirinyoku/tablebook/internal/config"
)

func newServeCmd(logger func() *slog.Logger) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the no-show sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()

			cfg, err := config.New()
			if err != nil {
				log.Error("failed to load config", "error", err)
				return err
			}

			application, err := app.New(cmd.Context(), cfg, log, app.Options{
				Version: Version,
				Migrate: migrate,
			})
			if err != nil {
				log.Error("failed to create application", "error", err)
				return err
			}

			if err := application.Run(cmd.Context()); err != nil {
				log.Error("application finished with error", "error", err)
				return err
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the postgres schema before serving")

	return cmd
}
