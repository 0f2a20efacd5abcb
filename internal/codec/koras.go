// internal/codec/koras.go
package codec

import "fmt"

// KORAS command codes (holding register 0, value in register 1).
const (
	KorasMotorEnable    uint16 = 1
	KorasMotorStop      uint16 = 2
	KorasMotorDisable   uint16 = 4
	KorasMotorPosCtrl   uint16 = 5
	KorasMotorVelCtrl   uint16 = 6
	KorasMotorCurCtrl   uint16 = 7
	KorasChangeSlave    uint16 = 50
	KorasInitialize     uint16 = 101
	KorasOpen           uint16 = 102
	KorasClose          uint16 = 103
	KorasFingerPosition uint16 = 104
	KorasVacuumOn       uint16 = 106
	KorasVacuumOff      uint16 = 107
	KorasSetTorque      uint16 = 212
	KorasSetSpeed       uint16 = 213
)

// KORAS status register bits (input register 10).
const (
	KorasBitMotorEnabled uint16 = 1 << 0
	KorasBitInitialized  uint16 = 1 << 1
	KorasBitPosControl   uint16 = 1 << 2
	KorasBitVelControl   uint16 = 1 << 3
	KorasBitCurControl   uint16 = 1 << 4
	KorasBitOpening      uint16 = 1 << 5
	KorasBitClosing      uint16 = 1 << 6
	KorasBitMotorFault   uint16 = 1 << 9
)

// KorasInputWords is the size of the KORAS input block.
const KorasInputWords = 8

// KorasStatus is one decoded KORAS input block.
type KorasStatus struct {
	Raw uint16

	MotorEnabled bool
	Initialized  bool
	PosControl   bool
	VelControl   bool
	CurControl   bool
	Opening      bool
	Closing      bool
	MotorFault   bool

	MotorPosition  uint16 // 0.01 mm as reported
	MotorCurrent   uint16 // mA
	MotorVelocity  uint16 // rpm
	FingerPosition uint16 // 0..1000
	BusVoltage     uint16 // V
}

// DecodeKorasStatus decodes the 8-word KORAS input block.
func DecodeKorasStatus(regs []uint16) (KorasStatus, error) {
	if len(regs) < KorasInputWords {
		return KorasStatus{}, fmt.Errorf("codec: koras block too short: got=%d want=%d", len(regs), KorasInputWords)
	}
	raw := regs[0]
	return KorasStatus{
		Raw:            raw,
		MotorEnabled:   raw&KorasBitMotorEnabled != 0,
		Initialized:    raw&KorasBitInitialized != 0,
		PosControl:     raw&KorasBitPosControl != 0,
		VelControl:     raw&KorasBitVelControl != 0,
		CurControl:     raw&KorasBitCurControl != 0,
		Opening:        raw&KorasBitOpening != 0,
		Closing:        raw&KorasBitClosing != 0,
		MotorFault:     raw&KorasBitMotorFault != 0,
		MotorPosition:  regs[1],
		MotorCurrent:   regs[2],
		MotorVelocity:  regs[3],
		FingerPosition: regs[4],
		BusVoltage:     regs[7],
	}, nil
}
