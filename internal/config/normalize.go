// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultTimeoutMs      = 1000
	DefaultPollIntervalMs = 10
	DefaultBaudRate       = 38400
	DefaultDataBits       = 8
	DefaultStopBits       = 1
	DefaultParity         = "N"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	g := &cfg.Gripper

	if g.Link.Kind == "" {
		g.Link.Kind = "tcp"
	}
	if g.Link.TimeoutMs == 0 {
		g.Link.TimeoutMs = DefaultTimeoutMs
	}
	if g.Poll.IntervalMs == 0 {
		g.Poll.IntervalMs = DefaultPollIntervalMs
	}

	if g.Link.Kind == "rtu" {
		s := &g.Link.Serial
		if s.BaudRate == 0 {
			s.BaudRate = DefaultBaudRate
		}
		if s.DataBits == 0 {
			s.DataBits = DefaultDataBits
		}
		if s.StopBits == 0 {
			s.StopBits = DefaultStopBits
		}
		if s.Parity == "" {
			s.Parity = DefaultParity
		}
	}

	// ------------------------------------------------------------
	// STATUS MIRROR NORMALIZATION (OPT-IN)
	// ------------------------------------------------------------

	sm := g.StatusMemory
	if sm == nil {
		return
	}

	if sm.TimeoutMs == 0 {
		sm.TimeoutMs = g.Link.TimeoutMs
	}

	// device_name defaults to the gripper id.
	// ASCII already validated; truncate to 16 characters.
	if sm.DeviceName == "" {
		sm.DeviceName = g.ID
	}
	if len(sm.DeviceName) > 16 {
		sm.DeviceName = sm.DeviceName[:16]
	}
}
