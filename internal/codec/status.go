// internal/codec/status.go
package codec

// Zimmer StatusWord bit masks (input word 0).
const (
	FlagMoveToWorkPending uint16 = 0x4000
	FlagMoveToBasePending uint16 = 0x2000
	FlagDataTransferOK    uint16 = 0x1000
	FlagAtWork            uint16 = 0x0400
	FlagAtBase            uint16 = 0x0100
	FlagPLCActive         uint16 = 0x0040
	FlagMovementComplete  uint16 = 0x0008
	FlagInMotion          uint16 = 0x0004
	FlagMotorOn           uint16 = 0x0002
	FlagHomingOK          uint16 = 0x0001
)

// DefinedStatusBits is the union of every bit the codec interprets.
const DefinedStatusBits = FlagMoveToWorkPending | FlagMoveToBasePending | FlagDataTransferOK |
	FlagAtWork | FlagAtBase | FlagPLCActive | FlagMovementComplete | FlagInMotion |
	FlagMotorOn | FlagHomingOK

// StatusWord is one decoded poll of the Zimmer status register.
// It carries no memory of previous cycles.
type StatusWord struct {
	MoveToWorkPending bool
	MoveToBasePending bool
	DataTransferOK    bool
	AtWork            bool
	AtBase            bool
	PLCActive         bool
	MovementComplete  bool
	InMotion          bool
	MotorOn           bool
	HomingOK          bool
}

// DecodeStatus maps a raw status register onto flags.
func DecodeStatus(raw uint16) StatusWord {
	return StatusWord{
		MoveToWorkPending: raw&FlagMoveToWorkPending != 0,
		MoveToBasePending: raw&FlagMoveToBasePending != 0,
		DataTransferOK:    raw&FlagDataTransferOK != 0,
		AtWork:            raw&FlagAtWork != 0,
		AtBase:            raw&FlagAtBase != 0,
		PLCActive:         raw&FlagPLCActive != 0,
		MovementComplete:  raw&FlagMovementComplete != 0,
		InMotion:          raw&FlagInMotion != 0,
		MotorOn:           raw&FlagMotorOn != 0,
		HomingOK:          raw&FlagHomingOK != 0,
	}
}

// Raw re-encodes the defined bits. Undefined bits are always zero.
func (s StatusWord) Raw() uint16 {
	var raw uint16
	set := func(on bool, mask uint16) {
		if on {
			raw |= mask
		}
	}
	set(s.MoveToWorkPending, FlagMoveToWorkPending)
	set(s.MoveToBasePending, FlagMoveToBasePending)
	set(s.DataTransferOK, FlagDataTransferOK)
	set(s.AtWork, FlagAtWork)
	set(s.AtBase, FlagAtBase)
	set(s.PLCActive, FlagPLCActive)
	set(s.MovementComplete, FlagMovementComplete)
	set(s.InMotion, FlagInMotion)
	set(s.MotorOn, FlagMotorOn)
	set(s.HomingOK, FlagHomingOK)
	return raw
}

// Bits expands a raw register into 16 flags, most significant bit first.
func Bits(raw uint16) [16]bool {
	var out [16]bool
	for i := 0; i < 16; i++ {
		out[i] = raw&(1<<(15-i)) != 0
	}
	return out
}
