package csvexport

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/Overland-East-Bay/member-audit/internal/domain"
	"github.com/Overland-East-Bay/member-audit/internal/ports/out/responseexport"
)

const utf8BOM = "\uFEFF"

// Parser reads an attendance export in CSV form.
//
// The first record is the header. Columns are matched by name after trimming
// whitespace (and a UTF-8 BOM on the first cell); unknown columns are ignored
// and short rows read as empty cells.
type Parser struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

func NewParser() *Parser {
	return &Parser{Comma: ','}
}

func (p *Parser) Parse(ctx context.Context, r io.Reader) ([]domain.ResponseRecord, error) {
	if r == nil {
		return nil, &responseexport.DataSourceError{Reason: "no input"}
	}

	cr := csv.NewReader(r)
	if p.Comma != 0 {
		cr.Comma = p.Comma
	}
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &responseexport.DataSourceError{Reason: "export is empty"}
	}
	if err != nil {
		return nil, &responseexport.DataSourceError{Reason: "malformed CSV", Err: err}
	}
	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ResponseRecord, 0)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &responseexport.DataSourceError{Reason: "malformed CSV", Err: err}
		}
		out = append(out, domain.ResponseRecord{
			Attendees: cell(rec, cols.attendees),
			Maybe:     cell(rec, cols.maybe),
			No:        cell(rec, cols.no),
		})
	}
	return out, nil
}

type columns struct {
	attendees int
	maybe     int
	no        int
}

func locateColumns(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		h = strings.TrimSpace(h)
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}

	var missing []string
	for _, name := range responseexport.RequiredColumns {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return columns{}, &responseexport.DataSourceError{
			Reason: "missing required columns: " + strings.Join(missing, ", "),
		}
	}
	return columns{
		attendees: idx[responseexport.ColumnAttendees],
		maybe:     idx[responseexport.ColumnMaybe],
		no:        idx[responseexport.ColumnNo],
	}, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}
