package httpapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Overland-East-Bay/member-audit/internal/app/audit"
	"github.com/Overland-East-Bay/member-audit/internal/domain"
	"github.com/Overland-East-Bay/member-audit/internal/ports/out/report"
	"github.com/Overland-East-Bay/member-audit/internal/ports/out/responseexport"
)

// DefaultMaxExportBytes caps the request body of an audit.
const DefaultMaxExportBytes = 10 << 20

const exportName = "request body"

// Server runs one independent audit per request against the shared roster.
type Server struct {
	svc *audit.Service
	// renderers by format name (the value of ?format=).
	renderers     map[string]report.Renderer
	defaultFormat string
	maxBytes      int64
	logger        *zap.Logger
}

type ServerOptions struct {
	// Renderers maps format names to renderers. It must contain DefaultFormat.
	Renderers     map[string]report.Renderer
	DefaultFormat string
	// MaxExportBytes defaults to DefaultMaxExportBytes.
	MaxExportBytes int64
	Logger         *zap.Logger
}

func NewServer(svc *audit.Service, opts ServerOptions) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxExportBytes <= 0 {
		opts.MaxExportBytes = DefaultMaxExportBytes
	}
	renderers := make(map[string]report.Renderer, len(opts.Renderers))
	for k, v := range opts.Renderers {
		renderers[strings.ToLower(k)] = v
	}
	return &Server{
		svc:           svc,
		renderers:     renderers,
		defaultFormat: strings.ToLower(opts.DefaultFormat),
		maxBytes:      opts.MaxExportBytes,
		logger:        opts.Logger,
	}
}

// CreateAudit handles POST /audits. The body is the attendance export; the
// response is the rendered report as an attachment.
func (s *Server) CreateAudit(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = s.defaultFormat
	}
	renderer, ok := s.renderers[format]
	if !ok {
		writeError(w, r, http.StatusBadRequest, "INVALID_FORMAT", "unsupported format "+strconv.Quote(format))
		return
	}
	svc := s.svc.WithRenderer(renderer)

	// The status depends on the outcome, so the artifact is buffered.
	var buf bytes.Buffer
	res, err := svc.Run(r.Context(), audit.RunInput{
		Export:     http.MaxBytesReader(w, r.Body, s.maxBytes),
		ExportName: exportName,
		Sink:       &buf,
		SinkName:   "response",
	})
	if err != nil {
		s.writeAuditError(w, r, err)
		return
	}

	name := svc.ArtifactNameAt(res.GeneratedAt)
	h := w.Header()
	h.Set("Content-Type", renderer.ContentType())
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	setSummaryHeaders(h, res)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, &buf); err != nil {
		s.logger.Warn("write audit response", zap.String("run_id", string(res.RunID)), zap.Error(err))
	}
	s.logger.Info("audit served",
		zap.String("run_id", string(res.RunID)),
		zap.String("format", format),
		zap.String("caller", CallerFromContext(r.Context())),
	)
}

// CreateAuditSummary handles POST /audits/summary and answers with JSON only.
func (s *Server) CreateAuditSummary(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Run(r.Context(), audit.RunInput{
		Export:     http.MaxBytesReader(w, r.Body, s.maxBytes),
		ExportName: exportName,
		Sink:       io.Discard,
		SinkName:   "discard",
	})
	if err != nil {
		s.writeAuditError(w, r, err)
		return
	}
	setSummaryHeaders(w.Header(), res)
	writeJSON(w, http.StatusOK, toAuditResponse(res))
}

func (s *Server) writeAuditError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.logger.Info("audit canceled", zap.Error(err))
		writeError(w, r, http.StatusServiceUnavailable, "REQUEST_CANCELED", "request canceled before the audit finished")
		return
	}
	var dse *responseexport.DataSourceError
	if errors.As(err, &dse) {
		writeError(w, r, http.StatusUnprocessableEntity, "INVALID_EXPORT", dse.Error())
		return
	}
	var re *report.RenderError
	if errors.As(err, &re) {
		s.logger.Error("render failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "RENDER_FAILED", "failed to render report")
		return
	}
	s.logger.Error("audit failed", zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, "INTERNAL", "audit failed")
}

func setSummaryHeaders(h http.Header, res domain.AuditResult) {
	h.Set("X-Audit-Run-Id", string(res.RunID))
	h.Set("X-Audit-Generated-At", res.GeneratedAt.UTC().Format(time.RFC3339))
	h.Set("X-Audit-Yes", strconv.Itoa(res.Summary.Yes))
	h.Set("X-Audit-Maybe", strconv.Itoa(res.Summary.Maybe))
	h.Set("X-Audit-No", strconv.Itoa(res.Summary.No))
	h.Set("X-Audit-No-Response", strconv.Itoa(res.Summary.NoResponse))
}

type AuditResponse struct {
	RunID       string          `json:"runId"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Rows        []AuditRowDTO   `json:"rows"`
	Summary     AuditSummaryDTO `json:"summary"`
}

type AuditRowDTO struct {
	DisplayName string `json:"displayName"`
	Response    string `json:"response"`
}

type AuditSummaryDTO struct {
	TotalMembers int      `json:"totalMembers"`
	Yes          int      `json:"yes"`
	Maybe        int      `json:"maybe"`
	No           int      `json:"no"`
	NoResponse   int      `json:"noResponse"`
	Unmatched    []string `json:"unmatched"`
}

func toAuditResponse(res domain.AuditResult) AuditResponse {
	rows := make([]AuditRowDTO, 0, len(res.Rows))
	for _, row := range res.Rows {
		rows = append(rows, AuditRowDTO{DisplayName: row.IdentityKey, Response: row.Category.Label()})
	}
	unmatched := res.Summary.Unmatched
	if unmatched == nil {
		unmatched = []string{}
	}
	return AuditResponse{
		RunID:       string(res.RunID),
		GeneratedAt: res.GeneratedAt.UTC(),
		Rows:        rows,
		Summary: AuditSummaryDTO{
			TotalMembers: res.Summary.TotalMembers,
			Yes:          res.Summary.Yes,
			Maybe:        res.Summary.Maybe,
			No:           res.Summary.No,
			NoResponse:   res.Summary.NoResponse,
			Unmatched:    unmatched,
		},
	}
}
