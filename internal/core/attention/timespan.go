package attention

import (
	"strconv"
	"time"
)

// Timespan is a non-negative duration in whole seconds.
type Timespan uint64

// NewTimespan converts d to whole seconds, truncating any fraction.
// Negative durations yield zero.
func NewTimespan(d time.Duration) Timespan {
	if d <= 0 {
		return 0
	}
	return Timespan(d / time.Second)
}

// Duration returns the span as a time.Duration.
func (t Timespan) Duration() time.Duration {
	return time.Duration(t) * time.Second
}

// String renders the span as "<n>s".
func (t Timespan) String() string {
	return strconv.FormatUint(uint64(t), 10) + "s"
}
