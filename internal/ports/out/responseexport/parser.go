package responseexport

import (
	"context"
	"io"

	"github.com/Overland-East-Bay/member-audit/internal/domain"
)

// Column names the export must carry.
const (
	ColumnAttendees = "Attendees"
	ColumnMaybe     = "Maybe"
	ColumnNo        = "No"
)

// RequiredColumns lists the export columns in tie-break priority order.
var RequiredColumns = []string{ColumnAttendees, ColumnMaybe, ColumnNo}

// Parser turns a tabular attendance export into response records.
//
// Implementations return records in source order and fail with *DataSourceError
// when the input is not usable.
type Parser interface {
	Parse(ctx context.Context, r io.Reader) ([]domain.ResponseRecord, error)
}
