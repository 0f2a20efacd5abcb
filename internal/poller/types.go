// internal/poller/types.go
package poller

import "time"

// ReadBlock describes the input-register geometry polled every cycle.
// Geometry only: no semantics.
type ReadBlock struct {
	Address  uint16
	Quantity uint16
}

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	Name string
	At   time.Time

	Registers []uint16
	Err       error // non-nil means the poll cycle failed
}
