package csvreport

import (
	"encoding/csv"
	"io"

	"github.com/Overland-East-Bay/member-audit/internal/domain"
	"github.com/Overland-East-Bay/member-audit/internal/ports/out/report"
)

const (
	ContentType = "text/csv; charset=utf-8"
	Extension   = "csv"
)

// Renderer writes the audit as unstyled CSV with the same two columns as the
// spreadsheet report.
type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

func (*Renderer) ContentType() string { return ContentType }
func (*Renderer) Extension() string   { return Extension }

func (*Renderer) Render(w io.Writer, rows []domain.AuditRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{report.HeaderDisplayName, report.HeaderResponse}); err != nil {
		return &report.RenderError{Err: err}
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.IdentityKey, r.Category.Label()}); err != nil {
			return &report.RenderError{Err: err}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return &report.RenderError{Err: err}
	}
	return nil
}
