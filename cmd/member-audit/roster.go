package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Overland-East-Bay/member-audit/internal/adapters/file/rosterfile"
	postgres "github.com/Overland-East-Bay/member-audit/internal/adapters/postgres"
	pgrosterrepo "github.com/Overland-East-Bay/member-audit/internal/adapters/postgres/rosterrepo"
	platformclock "github.com/Overland-East-Bay/member-audit/internal/platform/clock"
	"github.com/Overland-East-Bay/member-audit/internal/ports/out/rosterrepo"
)

func newRosterCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Inspect or seed the roster",
	}
	cmd.AddCommand(newRosterListCmd(c), newRosterImportCmd(c))
	return cmd
}

func newRosterListCmd(c *cli) *cobra.Command {
	var includeBots bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List roster members with their identity keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := wire(cmd.Context(), c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer d.Close()

			ms, err := d.roster.List(cmd.Context(), includeBots)
			if err != nil {
				return fmt.Errorf("list roster: %w", err)
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("IDENTITY KEY", "HANDLE", "BOT", "ID")
			for _, m := range ms {
				t.Row(rosterrepo.ToDomain(m).IdentityKey(), m.Handle, strconv.FormatBool(m.IsBot), string(m.ID))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return err
		},
	}
	cmd.Flags().BoolVar(&includeBots, "include-bots", false, "also list automated accounts")
	return cmd
}

func newRosterImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <roster.yaml>",
		Short: "Copy a YAML roster into the Postgres roster table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := postgres.NewPool(cmd.Context(), c.cfg.Roster.DatabaseURL, postgres.PoolOptions{})
			if err != nil {
				return fmt.Errorf("invalid postgres config: %w", err)
			}
			defer pool.Close()

			clk := platformclock.NewSystemClock(nil)
			n, err := rosterfile.LoadFile(cmd.Context(), args[0], pgrosterrepo.NewRepo(pool), clk.Now())
			if err != nil {
				return fmt.Errorf("import roster (%d imported): %w", n, err)
			}
			c.logger.Info("roster imported", zap.String("path", args[0]), zap.Int("members", n))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d members\n", n)
			return nil
		},
	}
}
