// internal/gripper/connection.go
package gripper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/tamzrod/modbus-gripper/internal/bus"
	"github.com/tamzrod/modbus-gripper/internal/poller"
	"github.com/tamzrod/modbus-gripper/internal/status"
)

// DefaultPollInterval is the status refresh period.
const DefaultPollInterval = 10 * time.Millisecond

// Options configures a gripper facade.
type Options struct {
	Name    string
	Profile Profile
	Dial    bus.Factory

	PollInterval time.Duration

	// Zimmer only.
	MaxStroke   uint16
	Force       int
	Velocity    int
	StepTimeout time.Duration

	// Logger defaults to log.Default().
	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = o.Profile.Name
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.MaxStroke == 0 {
		o.MaxStroke = DefaultMaxStroke
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// QuietLogger discards output. Useful for tests and one-shot CLI runs.
func QuietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

// cycleFunc consumes poll results until the channel stops or ctx ends.
type cycleFunc func(ctx context.Context, tr bus.Transport, results <-chan poller.PollResult)

// connection owns one open transport and its poll goroutines.
type connection struct {
	tr     bus.Transport
	cancel context.CancelFunc
	done   chan struct{}
}

// openConnection dials once and starts the poller plus its consumer.
// A dial failure leaves nothing running.
func openConnection(opts Options, loop cycleFunc) (*connection, error) {
	if opts.Dial == nil {
		return nil, errors.New("gripper: no transport factory")
	}

	tr, err := opts.Dial()
	if err != nil {
		return nil, fmt.Errorf("gripper: connect %s: %w", opts.Name, err)
	}

	p, err := poller.New(poller.Config{
		Name:     opts.Name,
		Interval: opts.PollInterval,
		Block: poller.ReadBlock{
			Address:  opts.Profile.InputAddr,
			Quantity: opts.Profile.InputWords,
		},
	}, tr)
	if err != nil {
		_ = tr.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &connection{
		tr:     tr,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	results := make(chan poller.PollResult)

	go func() {
		defer close(c.done)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Run(ctx, results)
		}()

		loop(ctx, tr, results)

		cancel()
		wg.Wait()
	}()

	return c, nil
}

// close stops both goroutines before closing the transport.
func (c *connection) close() error {
	c.cancel()
	<-c.done
	return c.tr.Close()
}

// recordPoll folds one poll outcome into the snapshot health fields.
// Register values are left untouched on failure.
func recordPoll(s *status.Snapshot, res poller.PollResult) {
	s.At = res.At
	if res.Err != nil {
		if s.Health != status.HealthError {
			s.ErrorSince = res.At
		}
		s.Health = status.HealthError
		s.LastError = res.Err.Error()
		return
	}
	s.Health = status.HealthOK
	s.LastError = ""
	s.ErrorSince = time.Time{}
}
