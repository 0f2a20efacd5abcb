// cmd/gripper/build.go
package main

import (
	"time"

	"github.com/tamzrod/modbus-gripper/internal/bus"
	bmodbus "github.com/tamzrod/modbus-gripper/internal/bus/modbus"
	"github.com/tamzrod/modbus-gripper/internal/config"
	"github.com/tamzrod/modbus-gripper/internal/gripper"
	"github.com/tamzrod/modbus-gripper/internal/status"
)

// device is what every gripper facade offers the CLI.
type device interface {
	Connect() error
	Disconnect() error
	Snapshot() status.Snapshot
}

func profileFor(g config.GripperConfig) gripper.Profile {
	if g.Device == config.DeviceKoras {
		return gripper.ProfileKoras
	}
	return gripper.ProfileZimmerTurck
}

// dialer turns the link config into a transport factory. One dial per Connect.
func dialer(g config.GripperConfig, p gripper.Profile) bus.Factory {
	unit := p.DefaultUnitID
	if g.Link.UnitID != nil {
		unit = *g.Link.UnitID
	}

	bc := bmodbus.Config{
		Kind:     g.Link.Kind,
		Endpoint: g.Link.Endpoint,
		UnitID:   unit,
		Timeout:  time.Duration(g.Link.TimeoutMs) * time.Millisecond,
		Serial: bmodbus.SerialConfig{
			Port:     g.Link.Serial.Port,
			BaudRate: g.Link.Serial.BaudRate,
			DataBits: g.Link.Serial.DataBits,
			StopBits: g.Link.Serial.StopBits,
			Parity:   g.Link.Serial.Parity,
		},
	}

	return func() (bus.Transport, error) {
		c, err := bmodbus.Dial(bc)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

func options(g config.GripperConfig) gripper.Options {
	p := profileFor(g)
	return gripper.Options{
		Name:         g.ID,
		Profile:      p,
		Dial:         dialer(g, p),
		PollInterval: time.Duration(g.Poll.IntervalMs) * time.Millisecond,
		MaxStroke:    g.Motion.MaxStroke,
		Force:        g.Motion.Force,
		Velocity:     g.Motion.Velocity,
		StepTimeout:  time.Duration(g.Motion.StepTimeoutMs) * time.Millisecond,
	}
}
