package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Overland-East-Bay/member-audit/internal/adapters/xlsxreport"
	"github.com/Overland-East-Bay/member-audit/internal/domain"
)

// SummaryPrinter writes the end-of-run summary to a terminal.
// Colors follow the report palette and degrade to plain text off a TTY.
type SummaryPrinter struct {
	w io.Writer
	r *lipgloss.Renderer

	palette xlsxreport.Palette
}

func NewSummaryPrinter(w io.Writer, palette xlsxreport.Palette) *SummaryPrinter {
	return &SummaryPrinter{w: w, r: lipgloss.NewRenderer(w), palette: palette}
}

// Print writes the summary. artifact may be empty when nothing was saved.
func (p *SummaryPrinter) Print(res domain.AuditResult, artifact string) error {
	_, err := io.WriteString(p.w, p.Render(res, artifact))
	return err
}

// Render formats the summary without writing it.
func (p *SummaryPrinter) Render(res domain.AuditResult, artifact string) string {
	title := p.r.NewStyle().Bold(true).Foreground(lipgloss.Color("#" + p.palette.Header))
	dim := p.r.NewStyle().Faint(true)

	var b strings.Builder
	b.WriteString(title.Render("=== Audit Summary ==="))
	b.WriteString("\n")
	if res.RunID != "" {
		b.WriteString(dim.Render("Run: " + string(res.RunID)))
		b.WriteString("\n")
	}
	if artifact != "" {
		fmt.Fprintf(&b, "Results exported to: %s\n", artifact)
	}
	fmt.Fprintf(&b, "Total members: %d\n", res.Summary.TotalMembers)
	b.WriteString("Responses breakdown:\n")
	for _, c := range domain.Categories {
		label := p.r.NewStyle().Foreground(lipgloss.Color("#" + p.palette.Fill(c))).Render(c.Label())
		fmt.Fprintf(&b, "- %s: %d\n", label, res.Summary.Count(c))
	}
	if n := len(res.Summary.Unmatched); n > 0 {
		fmt.Fprintf(&b, "Respondents not on the roster (%d): %s\n", n, strings.Join(res.Summary.Unmatched, ", "))
	}
	return b.String()
}
