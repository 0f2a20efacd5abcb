// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"time"
)

// Client abstracts the one Modbus read the poller needs.
type Client interface {
	ReadInputRegisters(addr, qty uint16) ([]uint16, error) // FC 4
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Name     string
	Interval time.Duration
	Block    ReadBlock
}

// Poller is a dumb, clock-driven reader.
type Poller struct {
	cfg    Config
	client Client
}

// New creates a poller with immutable config.
func New(cfg Config, client Client) (*Poller, error) {
	if cfg.Name == "" {
		return nil, errors.New("poller: name required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if cfg.Block.Quantity == 0 {
		return nil, errors.New("poller: read quantity must be > 0")
	}
	if client == nil {
		return nil, errors.New("poller: client required")
	}
	return &Poller{cfg: cfg, client: client}, nil
}

// PollOnce performs exactly one poll cycle.
// All-or-nothing: a short or failed read aborts the cycle.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{
		Name: p.cfg.Name,
		At:   time.Now(),
	}

	regs, err := p.client.ReadInputRegisters(p.cfg.Block.Address, p.cfg.Block.Quantity)
	if err != nil {
		res.Err = err
		return res
	}
	if len(regs) < int(p.cfg.Block.Quantity) {
		res.Err = fmt.Errorf("poller: short read: got=%d want=%d", len(regs), p.cfg.Block.Quantity)
		return res
	}

	res.Registers = regs[:p.cfg.Block.Quantity]
	return res
}
