package report

import (
	"io"

	"github.com/Overland-East-Bay/member-audit/internal/domain"
)

// Column headers shared by every renderer.
const (
	HeaderDisplayName = "Display Name"
	HeaderResponse    = "Response"
)

// Renderer writes the sorted audit rows as a single artifact.
//
// Rows arrive already sorted. Implementations return *RenderError when the
// sink cannot be written; anything already written is then undefined.
type Renderer interface {
	Render(w io.Writer, rows []domain.AuditRow) error

	// ContentType and Extension describe the artifact for file names and HTTP.
	ContentType() string
	Extension() string
}
