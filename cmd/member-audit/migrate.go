package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	postgres "github.com/Overland-East-Bay/member-audit/internal/adapters/postgres"
)

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the roster table migrations to DATABASE_URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := postgres.NewPool(cmd.Context(), c.cfg.Roster.DatabaseURL, postgres.PoolOptions{})
			if err != nil {
				return fmt.Errorf("invalid postgres config: %w", err)
			}
			defer pool.Close()

			n, err := postgres.RunMigrations(cmd.Context(), pool, c.logger)
			if err != nil {
				return err
			}
			c.logger.Info("migrations complete", zap.Int("applied", n))
			return nil
		},
	}
}
