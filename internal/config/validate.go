// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
)

// statusBlockSlots mirrors status.SlotsPerDevice.
const statusBlockSlots = 20

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}

	g := cfg.Gripper

	if g.ID == "" {
		return errors.New("gripper.id is required")
	}

	switch g.Device {
	case DeviceZimmer, DeviceKoras:
	default:
		return fmt.Errorf("gripper %q: device must be %q or %q, got %q", g.ID, DeviceZimmer, DeviceKoras, g.Device)
	}

	// ------------------------------------------------------------
	// LINK
	// ------------------------------------------------------------

	switch g.Link.Kind {
	case "", "tcp":
		if g.Link.Endpoint == "" {
			return fmt.Errorf("gripper %q: link.endpoint is required for tcp", g.ID)
		}
	case "rtu":
		if g.Link.Serial.Port == "" {
			return fmt.Errorf("gripper %q: link.serial.port is required for rtu", g.ID)
		}
		switch g.Link.Serial.Parity {
		case "", "N", "E", "O":
		default:
			return fmt.Errorf("gripper %q: link.serial.parity must be N, E or O", g.ID)
		}
		if g.Link.Serial.BaudRate < 0 {
			return fmt.Errorf("gripper %q: link.serial.baud_rate must be >= 0", g.ID)
		}
		if d := g.Link.Serial.DataBits; d != 0 && (d < 5 || d > 8) {
			return fmt.Errorf("gripper %q: link.serial.data_bits must be 5..8", g.ID)
		}
		if s := g.Link.Serial.StopBits; s != 0 && s != 1 && s != 2 {
			return fmt.Errorf("gripper %q: link.serial.stop_bits must be 1 or 2", g.ID)
		}
	default:
		return fmt.Errorf("gripper %q: link.kind must be tcp or rtu, got %q", g.ID, g.Link.Kind)
	}

	if g.Link.TimeoutMs < 0 {
		return fmt.Errorf("gripper %q: link.timeout_ms must be >= 0", g.ID)
	}
	if g.Poll.IntervalMs < 0 {
		return fmt.Errorf("gripper %q: poll.interval_ms must be >= 0", g.ID)
	}

	// ------------------------------------------------------------
	// MOTION
	// ------------------------------------------------------------

	if g.Motion.Force < 0 || g.Motion.Force > 100 {
		return fmt.Errorf("gripper %q: motion.force must be 0..100", g.ID)
	}
	if g.Motion.Velocity < 0 || g.Motion.Velocity > 100 {
		return fmt.Errorf("gripper %q: motion.velocity must be 0..100", g.ID)
	}
	if g.Motion.StepTimeoutMs < 0 {
		return fmt.Errorf("gripper %q: motion.step_timeout_ms must be >= 0", g.ID)
	}

	// ------------------------------------------------------------
	// STATUS MIRROR (OPT-IN)
	// ------------------------------------------------------------

	sm := g.StatusMemory
	if sm == nil {
		return nil
	}

	if sm.Endpoint == "" {
		return fmt.Errorf("gripper %q: status_memory.endpoint is required", g.ID)
	}
	if int(sm.Address)+statusBlockSlots > 0x10000 {
		return fmt.Errorf(
			"gripper %q: status_memory block %d-%d exceeds register space",
			g.ID,
			sm.Address,
			int(sm.Address)+statusBlockSlots-1,
		)
	}
	if sm.TimeoutMs < 0 {
		return fmt.Errorf("gripper %q: status_memory.timeout_ms must be >= 0", g.ID)
	}

	// device_name sanity (ASCII only)
	for i := 0; i < len(sm.DeviceName); i++ {
		if sm.DeviceName[i] > 0x7F {
			return fmt.Errorf("gripper %q: device_name must contain ASCII characters only", g.ID)
		}
	}

	return nil
}
