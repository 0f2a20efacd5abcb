// internal/codec/command.go
package codec

// ControlWord command bits (output word 0). Only one bit may be set per write.
const (
	CmdNone               uint16 = 0x0000
	CmdDataTransfer       uint16 = 0x0001
	CmdWritePDU           uint16 = 0x0002
	CmdResetDirectionFlag uint16 = 0x0004
	CmdTeach              uint16 = 0x0008
	CmdMoveToBase         uint16 = 0x0100
	CmdMoveToWork         uint16 = 0x0200
	CmdJogToWork          uint16 = 0x0400
	CmdJogToBase          uint16 = 0x0800
)

// DeviceMode values (high byte of output word 1).
const (
	ModeNotSend         uint8 = 0
	ModeIdle            uint8 = 1
	ModeGripperReset    uint8 = 2
	ModeMotorControlOn  uint8 = 3
	ModeMotorControlOff uint8 = 5
	ModeOutsideHoming   uint8 = 10
	ModeJogOperation    uint8 = 11
	ModeInsideHoming    uint8 = 14
)

// CommandFrameWords is the size of the Zimmer output block.
const CommandFrameWords = 8

// CommandFrame is the full Zimmer output block.
// The device latches all eight words together, so it is only ever written whole.
type CommandFrame struct {
	Control     uint16
	DeviceMode  uint8
	WorkpieceNo uint8
	Tolerance   uint16 // 0.01 mm
	Force       uint8  // percent
	Velocity    uint8  // percent
	Base        uint16 // 0.01 mm
	Shift       uint16 // 0.01 mm
	Teach       uint16 // 0.01 mm
	Work        uint16 // 0.01 mm
}

// EncodeCommand packs the frame fields. Force and velocity must already be clamped.
func EncodeCommand(control uint16, mode, workpiece uint8, tolerance uint16, force, velocity uint8, base, shift, teach, work uint16) CommandFrame {
	return CommandFrame{
		Control:     control,
		DeviceMode:  mode,
		WorkpieceNo: workpiece,
		Tolerance:   tolerance,
		Force:       force,
		Velocity:    velocity,
		Base:        base,
		Shift:       shift,
		Teach:       teach,
		Work:        work,
	}
}

// Registers returns the eight output words in register order.
func (f CommandFrame) Registers() []uint16 {
	return []uint16{
		f.Control,
		uint16(f.DeviceMode)<<8 | uint16(f.WorkpieceNo),
		f.Tolerance,
		uint16(f.Force)<<8 | uint16(f.Velocity),
		f.Base,
		f.Shift,
		f.Teach,
		f.Work,
	}
}

// DecodeCommand is the inverse of Registers. Short input yields zero fields.
func DecodeCommand(regs []uint16) CommandFrame {
	var w [CommandFrameWords]uint16
	copy(w[:], regs)
	return CommandFrame{
		Control:     w[0],
		DeviceMode:  uint8(w[1] >> 8),
		WorkpieceNo: uint8(w[1]),
		Tolerance:   w[2],
		Force:       uint8(w[3] >> 8),
		Velocity:    uint8(w[3]),
		Base:        w[4],
		Shift:       w[5],
		Teach:       w[6],
		Work:        w[7],
	}
}
