package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Overland-East-Bay/member-audit/internal/adapters/console"
	"github.com/Overland-East-Bay/member-audit/internal/app/audit"
	"github.com/Overland-East-Bay/member-audit/internal/platform/config"
	"github.com/Overland-East-Bay/member-audit/internal/ports/out/report"
	"github.com/Overland-East-Bay/member-audit/internal/ports/out/responseexport"
)

type runFlags struct {
	export       string
	outputDir    string
	rosterSource string
	rosterPath   string
	format       string
	sheet        string
}

func newRunCmd(c *cli) *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one audit and write the report to the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := f.apply(cmd, c.cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			return c.once.Do(cmd.Context(), func(ctx context.Context) error {
				return runAudit(ctx, cmd, cfg, c.logger)
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.export, "export", "e", "", "attendance export CSV (default from AUDIT_EXPORT_PATH)")
	fl.StringVarP(&f.outputDir, "output-dir", "o", "", "directory the report is written to")
	fl.StringVar(&f.rosterSource, "roster-source", "", "roster source: file or postgres")
	fl.StringVar(&f.rosterPath, "roster", "", "roster YAML file when --roster-source=file")
	fl.StringVarP(&f.format, "format", "f", "", "report format: xlsx or csv")
	fl.StringVar(&f.sheet, "sheet", "", "worksheet name for xlsx reports")
	return cmd
}

// apply overrides cfg with the flags that were set on the command line.
func (f runFlags) apply(cmd *cobra.Command, cfg config.Config) config.Config {
	set := cmd.Flags().Changed
	if set("export") {
		cfg.ExportPath = f.export
	}
	if set("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if set("roster-source") {
		cfg.Roster.Source = f.rosterSource
	}
	if set("roster") {
		cfg.Roster.Path = f.rosterPath
	}
	if set("format") {
		cfg.Report.Format = f.format
	}
	if set("sheet") {
		cfg.Report.SheetName = f.sheet
	}
	return cfg
}

func runAudit(ctx context.Context, cmd *cobra.Command, cfg config.Config, logger *zap.Logger) error {
	export, err := os.Open(cfg.ExportPath)
	if err != nil {
		return &responseexport.DataSourceError{Source: cfg.ExportPath, Reason: "open failed", Err: err}
	}
	defer export.Close()

	d, err := wire(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return &report.RenderError{Sink: cfg.OutputDir, Err: err}
	}
	at := d.svc.Now()
	outPath := filepath.Join(cfg.OutputDir, d.svc.ArtifactNameAt(at))
	out := &lazyFile{path: outPath}

	res, err := d.svc.Run(ctx, audit.RunInput{
		Export:     export,
		ExportName: cfg.ExportPath,
		Sink:       out,
		SinkName:   outPath,
		At:         at,
	})
	if cerr := out.Close(); cerr != nil && err == nil {
		err = &report.RenderError{Sink: outPath, Err: cerr}
	}
	if err != nil {
		var re *report.RenderError
		if errors.As(err, &re) {
			out.Remove()
		}
		return err
	}

	return console.NewSummaryPrinter(cmd.OutOrStdout(), d.xlsx.Palette()).Print(res, absPath(outPath))
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// lazyFile creates its file on the first Write, so a run that fails before
// rendering leaves nothing on disk.
type lazyFile struct {
	path string
	f    *os.File
}

func (l *lazyFile) Write(p []byte) (int, error) {
	if l.f == nil {
		f, err := os.Create(l.path)
		if err != nil {
			return 0, err
		}
		l.f = f
	}
	return l.f.Write(p)
}

func (l *lazyFile) Close() error {
	if l.f == nil {
		return nil
	}
	return l.f.Close()
}

// Remove deletes a partially written file.
func (l *lazyFile) Remove() {
	if l.f != nil {
		_ = os.Remove(l.path)
	}
}
