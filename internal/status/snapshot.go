// internal/status/snapshot.go
package status

import "time"

// Snapshot is the most recently decoded device state.
// It is written by the device goroutine only; readers get copies.
type Snapshot struct {
	Health uint16
	At     time.Time

	// LastError is the text of the last failed poll, cleared on recovery.
	LastError string
	// ErrorSince is when the current error streak began (zero when healthy).
	ErrorSince time.Time

	StatusWord uint16
	Diagnosis  uint16
	Position   uint16

	Step  int
	Armed bool
}

// SecondsInError returns how long the link has been failing, saturated at 65535.
func (s Snapshot) SecondsInError(now time.Time) uint16 {
	if s.Health != HealthError || s.ErrorSince.IsZero() {
		return 0
	}
	sec := now.Sub(s.ErrorSince) / time.Second
	if sec > 65535 {
		return 65535
	}
	if sec < 0 {
		return 0
	}
	return uint16(sec)
}
