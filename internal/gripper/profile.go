// internal/gripper/profile.go
package gripper

// Profile is the fixed register map of one device variant.
// These values are a compatibility contract with the device and are not configurable.
type Profile struct {
	Name string

	InputAddr  uint16
	InputWords uint16

	OutputAddr  uint16
	OutputWords uint16

	DefaultUnitID uint8

	// Zimmer only.
	RearmMode uint8
	Tolerance uint16 // 0.01 mm
	HomeShift uint16 // 0.01 mm
}

// ProfileZimmerTurck is a Zimmer GEH/GED 6000 gripper behind a Turck IO-Link master
// (Modbus TCP memory map, IO-Link channel 1).
var ProfileZimmerTurck = Profile{
	Name:          "zimmer",
	InputAddr:     0x0011,
	InputWords:    3,
	OutputAddr:    0x0811,
	OutputWords:   8,
	DefaultUnitID: 16,
	RearmMode:     85,
	Tolerance:     50,
	HomeShift:     2000,
}

// ProfileKoras is a KORAS gripper on its native Modbus map.
var ProfileKoras = Profile{
	Name:          "koras",
	InputAddr:     10,
	InputWords:    8,
	OutputAddr:    0,
	OutputWords:   2,
	DefaultUnitID: 1,
}
