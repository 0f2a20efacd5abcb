// internal/status/constants.go
package status

// Status mirror block layout constants.
// These values define the published block and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of registers per mirrored gripper.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the link health state.
const SlotHealthCode = 0

// SlotLastErrorCode is 1 while the last poll failed, else 0.
const SlotLastErrorCode = 1

// SlotSecondsInError holds the duration (in seconds) the link has been in error.
const SlotSecondsInError = 2

// SlotStatusWord holds the raw gripper status word.
const SlotStatusWord = 3

// SlotDiagnosis holds the raw diagnosis code.
const SlotDiagnosis = 4

// SlotPosition holds the actual jaw position [0.01 mm].
const SlotPosition = 5

// SlotStep holds the handshake step.
const SlotStep = 6

// SlotArmed is 1 while a motion command is outstanding.
const SlotArmed = 7

// ---- RESERVED RANGE ----

// Slots 8–10 are reserved for future use.
const SlotReservedStart = 8
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// ---- HEALTH CODES ----

// HealthUnknown represents the state before the first poll.
const HealthUnknown uint16 = 0

// HealthOK represents a link whose last poll succeeded.
const HealthOK uint16 = 1

// HealthError represents a link whose last poll failed.
const HealthError uint16 = 2

// HealthDisconnected represents a closed link (last values retained).
const HealthDisconnected uint16 = 4
