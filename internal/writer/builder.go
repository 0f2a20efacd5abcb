// internal/writer/builder.go
package writer

import (
	"errors"
	"time"

	cfg "github.com/tamzrod/modbus-gripper/internal/config"
	bmodbus "github.com/tamzrod/modbus-gripper/internal/bus/modbus"
)

// Build dials the status memory endpoint and returns a writer for it.
// Assumes config has already passed validation and normalization.
func Build(sm *cfg.StatusMemoryConfig) (StatusWriter, func() error, error) {
	if sm == nil {
		return nil, nil, errors.New("writer: status_memory not configured")
	}

	c, err := bmodbus.Dial(bmodbus.Config{
		Kind:     bmodbus.LinkTCP,
		Endpoint: sm.Endpoint,
		UnitID:   sm.UnitID,
		Timeout:  time.Duration(sm.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	plan := Plan{
		Endpoint:   sm.Endpoint,
		Address:    sm.Address,
		DeviceName: sm.DeviceName,
	}

	return NewStatusWriter(plan, c), c.Close, nil
}
