// internal/codec/diagnosis.go
package codec

import "fmt"

// diagnosisMessages follows the Zimmer device manual.
var diagnosisMessages = map[uint16]string{
	0x0000: "Device is ready for operation",
	0x0001: "Motor controller is switched off",

	0x0100: "Actuator power supply is not present or is too low",
	0x0101: "Temperature above maximum permitted temperature",
	0x0102: "Max. permitted temperature undershot",

	0x0206: "Motion task cannot be executed (CRC error)",

	0x0300: "ControlWord is not plausible",
	0x0301: "Positions implausible",
	0x0302: "GripForce is not plausible",
	0x0303: "DriveVelocity not plausible",
	0x0304: "PositionTolerance is not plausible",
	0x0305: "Position measuring system not referenced",
	0x0306: "DeviceMode is not plausible",
	0x0307: "Motion task cannot be executed",
	0x0308: "WorkpieceNo cannot be selected",
	0x0313: "Calculated ShiftPosition exceeded",

	0x0402: "Jam",
	0x0404: "Position sensor error",
	0x0406: "Internal error",
	0x040B: "Internal error",
	0x040C: "Internal error",
	0x040D: "Internal error",
	0x040E: "Internal error",
	0x040F: "Internal error",
}

// Diagnosis returns the manual text for a diagnosis code.
// Unknown codes get a generic message carrying the code.
func Diagnosis(code uint16) string {
	if msg, ok := diagnosisMessages[code]; ok {
		return msg
	}
	return fmt.Sprintf("Unknown error code (0x%04X)", code)
}
