package xlsxreport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Overland-East-Bay/member-audit/internal/domain"
	"github.com/Overland-East-Bay/member-audit/internal/ports/out/report"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	Extension   = "xlsx"

	defaultSheet = "Sheet1"
)

// Palette holds fill colors as hex RGB without the leading '#'.
type Palette struct {
	Header     string `yaml:"header"`
	Yes        string `yaml:"yes"`
	Maybe      string `yaml:"maybe"`
	No         string `yaml:"no"`
	NoResponse string `yaml:"no_response"`
}

// Fill is the color for rows of category c.
func (p Palette) Fill(c domain.Category) string {
	switch c {
	case domain.CategoryYes:
		return p.Yes
	case domain.CategoryMaybe:
		return p.Maybe
	case domain.CategoryNo:
		return p.No
	default:
		return p.NoResponse
	}
}

// DefaultPalette is green / gold / light red / light gray on a blue header.
func DefaultPalette() Palette {
	return Palette{
		Header:     "4B8BBE",
		Yes:        "90EE90",
		Maybe:      "FFD700",
		No:         "FFB6C1",
		NoResponse: "D3D3D3",
	}
}

type Options struct {
	SheetName     string
	NameWidth     float64
	ResponseWidth float64
	Palette       Palette
}

func DefaultOptions() Options {
	return Options{
		SheetName:     "Audit Results",
		NameWidth:     25,
		ResponseWidth: 15,
		Palette:       DefaultPalette(),
	}
}

// Renderer writes the audit as a single-sheet workbook.
type Renderer struct {
	opts Options
}

// NewRenderer fills zero-valued options from DefaultOptions.
func NewRenderer(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.SheetName == "" {
		opts.SheetName = def.SheetName
	}
	if opts.NameWidth <= 0 {
		opts.NameWidth = def.NameWidth
	}
	if opts.ResponseWidth <= 0 {
		opts.ResponseWidth = def.ResponseWidth
	}
	if opts.Palette.Header == "" {
		opts.Palette.Header = def.Palette.Header
	}
	if opts.Palette.Yes == "" {
		opts.Palette.Yes = def.Palette.Yes
	}
	if opts.Palette.Maybe == "" {
		opts.Palette.Maybe = def.Palette.Maybe
	}
	if opts.Palette.No == "" {
		opts.Palette.No = def.Palette.No
	}
	if opts.Palette.NoResponse == "" {
		opts.Palette.NoResponse = def.Palette.NoResponse
	}
	return &Renderer{opts: opts}
}

func (r *Renderer) ContentType() string { return ContentType }
func (r *Renderer) Extension() string   { return Extension }

// SheetName is the worksheet the rows are written to.
func (r *Renderer) SheetName() string { return r.opts.SheetName }

// Palette is the resolved palette, defaults included.
func (r *Renderer) Palette() Palette { return r.opts.Palette }

func (r *Renderer) Render(w io.Writer, rows []domain.AuditRow) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &report.RenderError{Err: cerr}
		}
	}()

	if err := r.build(f, rows); err != nil {
		return &report.RenderError{Err: fmt.Errorf("build workbook: %w", err)}
	}
	if err := f.Write(w); err != nil {
		return &report.RenderError{Err: err}
	}
	return nil
}

func (r *Renderer) build(f *excelize.File, rows []domain.AuditRow) error {
	sheet := r.opts.SheetName
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   solidFill(r.opts.Palette.Header),
		Border: thinBorder(),
	})
	if err != nil {
		return err
	}
	categoryStyles := make(map[domain.Category]int, len(domain.Categories))
	for _, c := range domain.Categories {
		id, err := f.NewStyle(&excelize.Style{
			Fill:   solidFill(r.opts.Palette.Fill(c)),
			Border: thinBorder(),
		})
		if err != nil {
			return err
		}
		categoryStyles[c] = id
	}

	if err := writeRow(f, sheet, 1, headerStyle, report.HeaderDisplayName, report.HeaderResponse); err != nil {
		return err
	}
	for i, row := range rows {
		style, ok := categoryStyles[row.Category]
		if !ok {
			style = categoryStyles[domain.CategoryNoResponse]
		}
		if err := writeRow(f, sheet, i+2, style, row.IdentityKey, row.Category.Label()); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", r.opts.NameWidth); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "B", r.opts.ResponseWidth)
}

func writeRow(f *excelize.File, sheet string, row int, style int, name, response string) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	second, err := excelize.CoordinatesToCellName(2, row)
	if err != nil {
		return err
	}
	if err := f.SetCellStr(sheet, first, name); err != nil {
		return err
	}
	if err := f.SetCellStr(sheet, second, response); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, second, style)
}

func solidFill(hex string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Color: []string{hex}, Pattern: 1}
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
}
