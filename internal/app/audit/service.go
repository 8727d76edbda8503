package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Overland-East-Bay/member-audit/internal/domain"
	clockport "github.com/Overland-East-Bay/member-audit/internal/ports/out/clock"
	"github.com/Overland-East-Bay/member-audit/internal/ports/out/report"
	"github.com/Overland-East-Bay/member-audit/internal/ports/out/responseexport"
	"github.com/Overland-East-Bay/member-audit/internal/ports/out/rosterrepo"
)

// ArtifactTimeLayout stamps artifact file names.
const ArtifactTimeLayout = "20060102_150405"

type Service struct {
	roster   rosterrepo.Repository
	parser   responseexport.Parser
	renderer report.Renderer
	clk      clockport.Clock
	logger   *zap.Logger

	newRunID func() domain.AuditRunID
}

func NewService(
	roster rosterrepo.Repository,
	parser responseexport.Parser,
	renderer report.Renderer,
	clk clockport.Clock,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		roster:   roster,
		parser:   parser,
		renderer: renderer,
		clk:      clk,
		logger:   logger,
		newRunID: func() domain.AuditRunID {
			return domain.AuditRunID(uuid.NewString())
		},
	}
}

// WithRenderer returns a copy of s that renders with r.
func (s *Service) WithRenderer(r report.Renderer) *Service {
	cp := *s
	cp.renderer = r
	return &cp
}

// Renderer is the renderer reports are written with.
func (s *Service) Renderer() report.Renderer { return s.renderer }

// ArtifactName is the file name for a report generated now,
// e.g. audit_results_20240131_174501.xlsx.
func (s *Service) ArtifactName() string {
	return s.ArtifactNameAt(s.clk.Now())
}

// ArtifactNameAt is the file name for a report generated at t.
func (s *Service) ArtifactNameAt(t time.Time) string {
	return fmt.Sprintf("audit_results_%s.%s", t.Format(ArtifactTimeLayout), s.renderer.Extension())
}

// Now reads the service clock.
func (s *Service) Now() time.Time { return s.clk.Now() }

// RunInput is one audit's input and output.
type RunInput struct {
	Export io.Reader
	// ExportName labels the export in errors and logs.
	ExportName string

	Sink io.Writer
	// SinkName labels the sink in errors and logs.
	SinkName string

	// At stamps the result. Zero means the clock's time when Run starts.
	At time.Time
}

// Run parses the export, reads the human roster, and writes the report.
//
// The export is parsed before anything is written, so a *responseexport.DataSourceError
// leaves the sink untouched. Sink failures are *report.RenderError.
func (s *Service) Run(ctx context.Context, in RunInput) (domain.AuditResult, error) {
	runID := s.newRunID()
	log := s.logger.With(zap.String("run_id", string(runID)))
	at := in.At
	if at.IsZero() {
		at = s.clk.Now()
	}

	records, err := s.parser.Parse(ctx, in.Export)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return domain.AuditResult{}, err
		}
		var dse *responseexport.DataSourceError
		if errors.As(err, &dse) {
			if dse.Source == "" {
				dse.Source = in.ExportName
			}
			return domain.AuditResult{}, dse
		}
		return domain.AuditResult{}, &responseexport.DataSourceError{Source: in.ExportName, Reason: "read failed", Err: err}
	}
	responses := ExtractResponses(records)
	log.Info("responses extracted",
		zap.String("path", in.ExportName),
		zap.Int("rows", len(records)),
		zap.Int("responses", responses.Len()),
	)

	members, err := s.ListRoster(ctx)
	if err != nil {
		return domain.AuditResult{}, err
	}
	log.Info("roster loaded", zap.Int("members", len(members)))

	rows, summary, err := s.render(ctx, members, responses, in.Sink, in.SinkName)
	if err != nil {
		return domain.AuditResult{}, err
	}
	log.Info("report written",
		zap.String("path", in.SinkName),
		zap.Int("rows", len(rows)),
		zap.Int("yes", summary.Yes),
		zap.Int("maybe", summary.Maybe),
		zap.Int("no", summary.No),
		zap.Int("no_response", summary.NoResponse),
		zap.Strings("unmatched", summary.Unmatched),
	)

	return domain.AuditResult{
		RunID:       runID,
		GeneratedAt: at,
		Rows:        rows,
		Summary:     summary,
	}, nil
}

// ListRoster returns the roster without automated accounts.
func (s *Service) ListRoster(ctx context.Context) ([]domain.Member, error) {
	ms, err := s.roster.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	out := make([]domain.Member, 0, len(ms))
	for _, m := range ms {
		out = append(out, rosterrepo.ToDomain(m))
	}
	return domain.HumanMembers(out), nil
}

// Report reconciles members against responses, writes the rendered report to
// sink and returns the summary.
func (s *Service) Report(ctx context.Context, members []domain.Member, responses *domain.ResponseMap, sink io.Writer) (domain.AuditSummary, error) {
	_, summary, err := s.render(ctx, members, responses, sink, "")
	return summary, err
}

func (s *Service) render(ctx context.Context, members []domain.Member, responses *domain.ResponseMap, sink io.Writer, sinkName string) ([]domain.AuditRow, domain.AuditSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.AuditSummary{}, err
	}
	rows := Reconcile(members, responses)
	if err := s.renderer.Render(sink, rows); err != nil {
		var re *report.RenderError
		if errors.As(err, &re) {
			if re.Sink == "" {
				re.Sink = sinkName
			}
			return nil, domain.AuditSummary{}, re
		}
		return nil, domain.AuditSummary{}, &report.RenderError{Sink: sinkName, Err: err}
	}
	// Duplicate identity keys collapsed into one row each; the roster size is the distinct key count.
	return rows, Summarize(len(rows), responses, rows), nil
}
