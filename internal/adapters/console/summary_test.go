package console

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/Overland-East-Bay/member-audit/internal/adapters/xlsxreport"
	"github.com/Overland-East-Bay/member-audit/internal/domain"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestSummaryPrinter_Print(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewSummaryPrinter(&buf, xlsxreport.DefaultPalette())
	err := p.Print(domain.AuditResult{
		RunID: "run-1",
		Summary: domain.AuditSummary{
			TotalMembers: 3,
			Yes:          1,
			Maybe:        1,
			NoResponse:   1,
			Unmatched:    []string{"Dave"},
		},
	}, "out/audit_results_20240101_000000.xlsx")
	if err != nil {
		t.Fatalf("Print() err=%v", err)
	}

	got := ansi.ReplaceAllString(buf.String(), "")
	for _, want := range []string{
		"=== Audit Summary ===",
		"Run: run-1",
		"Results exported to: out/audit_results_20240101_000000.xlsx",
		"Total members: 3",
		"- Yes: 1",
		"- Maybe: 1",
		"- No: 0",
		"- No Response: 1",
		"Respondents not on the roster (1): Dave",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestSummaryPrinter_OmitsEmptySections(t *testing.T) {
	t.Parallel()

	p := NewSummaryPrinter(&bytes.Buffer{}, xlsxreport.DefaultPalette())
	got := ansi.ReplaceAllString(p.Render(domain.AuditResult{}, ""), "")
	for _, unwanted := range []string{"Run:", "Results exported to", "not on the roster"} {
		if strings.Contains(got, unwanted) {
			t.Fatalf("output unexpectedly contains %q:\n%s", unwanted, got)
		}
	}
}
