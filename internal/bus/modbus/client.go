// internal/bus/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// Link kinds.
const (
	LinkTCP = "tcp"
	LinkRTU = "rtu"
)

// handler is what both goburrow client handlers provide.
type handler interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

// Client implements bus.Transport over one Modbus link (TCP or RTU).
// Requests are serialized: the poller and command writers share one link.
type Client struct {
	mu      sync.Mutex
	handler handler
	client  modbus.Client
}

// SerialConfig holds RTU line settings.
type SerialConfig struct {
	Port     string
	BaudRate int
	DataBits int
	StopBits int
	Parity   string
}

// Config is minimal transport config.
type Config struct {
	Kind     string // tcp | rtu
	Endpoint string // host:port for tcp
	UnitID   uint8
	Timeout  time.Duration
	Serial   SerialConfig
}

// Dial creates a connected client. One attempt, no retries.
func Dial(cfg Config) (*Client, error) {
	var h handler

	switch cfg.Kind {
	case LinkTCP, "":
		if cfg.Endpoint == "" {
			return nil, errors.New("bus modbus: endpoint required")
		}
		th := modbus.NewTCPClientHandler(cfg.Endpoint)
		th.SlaveId = cfg.UnitID
		th.Timeout = cfg.Timeout
		h = th

	case LinkRTU:
		if cfg.Serial.Port == "" {
			return nil, errors.New("bus modbus: serial port required")
		}
		rh := modbus.NewRTUClientHandler(cfg.Serial.Port)
		rh.BaudRate = cfg.Serial.BaudRate
		rh.DataBits = cfg.Serial.DataBits
		rh.StopBits = cfg.Serial.StopBits
		rh.Parity = cfg.Serial.Parity
		rh.SlaveId = cfg.UnitID
		rh.Timeout = cfg.Timeout
		h = rh

	default:
		return nil, fmt.Errorf("bus modbus: unsupported link kind %q", cfg.Kind)
	}

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("bus modbus: connect %s: %w", cfg.Kind, err)
	}

	return &Client{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

// Close closes the underlying link.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// ---- bus.Transport ----

func (c *Client) ReadInputRegisters(addr, qty uint16) ([]uint16, error) {
	if qty == 0 {
		return nil, nil
	}

	c.mu.Lock()
	raw, err := c.client.ReadInputRegisters(addr, qty)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if len(raw) < int(qty)*2 {
		return nil, fmt.Errorf("bus modbus: short read: got=%d bytes want=%d", len(raw), int(qty)*2)
	}
	return unpackRegisters(raw[:int(qty)*2]), nil
}

func (c *Client) WriteRegisters(addr uint16, regs []uint16) error {
	if len(regs) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.client.WriteMultipleRegisters(addr, uint16(len(regs)), packRegisters(regs))
	return err
}

// ---- helpers (pure geometry) ----

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
