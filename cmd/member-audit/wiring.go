package main

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Overland-East-Bay/member-audit/internal/adapters/csvexport"
	"github.com/Overland-East-Bay/member-audit/internal/adapters/csvreport"
	"github.com/Overland-East-Bay/member-audit/internal/adapters/file/rosterfile"
	memrosterrepo "github.com/Overland-East-Bay/member-audit/internal/adapters/memory/rosterrepo"
	postgres "github.com/Overland-East-Bay/member-audit/internal/adapters/postgres"
	pgrosterrepo "github.com/Overland-East-Bay/member-audit/internal/adapters/postgres/rosterrepo"
	"github.com/Overland-East-Bay/member-audit/internal/adapters/xlsxreport"
	"github.com/Overland-East-Bay/member-audit/internal/app/audit"
	platformclock "github.com/Overland-East-Bay/member-audit/internal/platform/clock"
	"github.com/Overland-East-Bay/member-audit/internal/platform/config"
	clockport "github.com/Overland-East-Bay/member-audit/internal/ports/out/clock"
	"github.com/Overland-East-Bay/member-audit/internal/ports/out/report"
	rosterrepoport "github.com/Overland-East-Bay/member-audit/internal/ports/out/rosterrepo"
)

type deps struct {
	clk       clockport.Clock
	roster    rosterrepoport.Repository
	renderers map[string]report.Renderer
	xlsx      *xlsxreport.Renderer
	svc       *audit.Service
	cleanup   func()
}

func (d *deps) Close() {
	if d.cleanup != nil {
		d.cleanup()
	}
}

// wire builds the service for cfg. Close releases the roster backend.
func wire(ctx context.Context, cfg config.Config, logger *zap.Logger) (*deps, error) {
	d := &deps{clk: platformclock.NewSystemClock(nil)}

	roster, cleanup, err := openRoster(ctx, cfg, logger, d.clk)
	if err != nil {
		return nil, err
	}
	d.roster = roster
	d.cleanup = cleanup

	d.xlsx = xlsxreport.NewRenderer(xlsxreport.Options{
		SheetName:     cfg.Report.SheetName,
		NameWidth:     cfg.Report.NameWidth,
		ResponseWidth: cfg.Report.ResponseWidth,
		Palette:       xlsxreport.Palette(cfg.Report.Palette),
	})
	d.renderers = map[string]report.Renderer{
		config.FormatXLSX: d.xlsx,
		config.FormatCSV:  csvreport.NewRenderer(),
	}
	renderer, ok := d.renderers[strings.ToLower(cfg.Report.Format)]
	if !ok {
		d.Close()
		return nil, fmt.Errorf("unsupported report format %q", cfg.Report.Format)
	}

	d.svc = audit.NewService(roster, csvexport.NewParser(), renderer, d.clk, logger)
	return d, nil
}

func openRoster(ctx context.Context, cfg config.Config, logger *zap.Logger, clk clockport.Clock) (rosterrepoport.Repository, func(), error) {
	switch cfg.Roster.Source {
	case config.RosterSourcePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Roster.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			return nil, nil, fmt.Errorf("invalid postgres config: %w", err)
		}
		logger.Info("roster source", zap.String("source", config.RosterSourcePostgres))
		return pgrosterrepo.NewRepo(pool), pool.Close, nil
	default:
		repo := memrosterrepo.NewRepo()
		n, err := rosterfile.LoadFile(ctx, cfg.Roster.Path, repo, clk.Now())
		if err != nil {
			return nil, nil, err
		}
		logger.Info("roster source",
			zap.String("source", config.RosterSourceFile),
			zap.String("path", cfg.Roster.Path),
			zap.Int("members", n),
		)
		return repo, nil, nil
	}
}
