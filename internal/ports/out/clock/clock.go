package clock

import "time"

// Clock stamps audit runs and artifact file names.
// Tests swap in a manual clock for stable names.
type Clock interface {
	Now() time.Time
}
