package report

import "fmt"

// RenderError reports that the output artifact could not be written.
type RenderError struct {
	// Sink names the destination (a path, "response", ...). May be empty.
	Sink string
	Err  error
}

func (e *RenderError) Error() string {
	if e == nil {
		return ""
	}
	dest := "report"
	if e.Sink != "" {
		dest = "report to " + e.Sink
	}
	if e.Err == nil {
		return "render " + dest
	}
	return fmt.Sprintf("render %s: %v", dest, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
