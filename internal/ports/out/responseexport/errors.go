package responseexport

import "fmt"

// DataSourceError reports an export that is missing, malformed or lacks the
// required columns. It aborts the run before any output is produced.
type DataSourceError struct {
	// Source names the input (a path, "request body", ...). May be empty.
	Source string
	Reason string
	Err    error
}

func (e *DataSourceError) Error() string {
	if e == nil {
		return ""
	}
	msg := "response export"
	if e.Source != "" {
		msg += " " + e.Source
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DataSourceError) Unwrap() error { return e.Err }
