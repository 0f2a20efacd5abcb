// internal/config/config.go
package config

type Config struct {
	Gripper GripperConfig `yaml:"gripper"`
}

// Device kinds.
const (
	DeviceZimmer = "zimmer"
	DeviceKoras  = "koras"
)

// ---- GRIPPER ----

type GripperConfig struct {
	ID     string       `yaml:"id"`
	Device string       `yaml:"device"` // zimmer | koras
	Link   LinkConfig   `yaml:"link"`
	Poll   PollConfig   `yaml:"poll"`
	Motion MotionConfig `yaml:"motion"`

	// Status mirror (optional, opt-in)
	StatusMemory *StatusMemoryConfig `yaml:"status_memory"`
}

// ---- LINK ----

type LinkConfig struct {
	Kind      string       `yaml:"kind"`     // tcp | rtu
	Endpoint  string       `yaml:"endpoint"` // host:port (tcp)
	UnitID    *uint8       `yaml:"unit_id"`  // missing => device profile default
	TimeoutMs int          `yaml:"timeout_ms"`
	Serial    SerialConfig `yaml:"serial"`
}

type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
	DataBits int    `yaml:"data_bits"`
	StopBits int    `yaml:"stop_bits"`
	Parity   string `yaml:"parity"` // N | E | O
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- MOTION (zimmer) ----

type MotionConfig struct {
	MaxStroke     uint16 `yaml:"max_stroke"` // 0.01 mm; 0 => gripper default
	Force         int    `yaml:"force"`      // %; 0 => 50
	Velocity      int    `yaml:"velocity"`   // %; 0 => 50
	StepTimeoutMs int    `yaml:"step_timeout_ms"`
}

// ---- STATUS MIRROR ----

type StatusMemoryConfig struct {
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id"`
	Address    uint16 `yaml:"address"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	DeviceName string `yaml:"device_name"`
}
