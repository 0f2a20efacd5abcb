// internal/status/encode.go
package status

import "time"

// Encode converts a Snapshot into the live slots of a mirror block (device name excluded).
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot, now time.Time) []uint16 {
	regs := make([]uint16, SlotsPerDevice)

	regs[SlotHealthCode] = s.Health
	if s.LastError != "" {
		regs[SlotLastErrorCode] = 1
	}
	regs[SlotSecondsInError] = s.SecondsInError(now)
	regs[SlotStatusWord] = s.StatusWord
	regs[SlotDiagnosis] = s.Diagnosis
	regs[SlotPosition] = s.Position
	if s.Step >= 0 && s.Step <= 0xFFFF {
		regs[SlotStep] = uint16(s.Step)
	}
	if s.Armed {
		regs[SlotArmed] = 1
	}

	return regs
}
