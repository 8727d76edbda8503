package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Overland-East-Bay/member-audit/internal/platform/config"
	"github.com/Overland-East-Bay/member-audit/internal/platform/lifecycle"
	"github.com/Overland-East-Bay/member-audit/internal/platform/logging"
)

// cli holds what every subcommand shares once PersistentPreRunE has run.
type cli struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string

	cfg    config.Config
	logger *zap.Logger

	// once gates `run` to a single audit per process.
	once lifecycle.Once
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "member-audit",
		Short: "Reconcile the community roster against an attendance export",
		Long: `member-audit compares every human member of the community roster with the
Attendees / Maybe / No columns of an attendance export and writes a
color-coded spreadsheet plus a summary.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "YAML config file")
	pf.StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	pf.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&c.logFormat, "log-format", "", "log format (json, console)")

	root.AddCommand(
		newRunCmd(c),
		newServeCmd(c),
		newMigrateCmd(c),
		newRosterCmd(c),
	)
	return root
}

func (c *cli) init() error {
	if c.envFile != "" {
		// A missing .env is normal outside local development.
		if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", c.envFile, err)
		}
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Log.Format = c.logFormat
	}
	c.cfg = cfg

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	c.logger = logger
	return nil
}
