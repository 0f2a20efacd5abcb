// internal/gripper/koras.go
package gripper

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/tamzrod/modbus-gripper/internal/bus"
	"github.com/tamzrod/modbus-gripper/internal/codec"
	"github.com/tamzrod/modbus-gripper/internal/poller"
	"github.com/tamzrod/modbus-gripper/internal/status"
)

// korasFingerMax is the finger position range upper bound (0..1000).
const korasFingerMax = 1000

// Koras drives a KORAS gripper. Commands are single [command, value] writes
// with no handshake; status is polled in the background.
type Koras struct {
	opts Options
	log  *log.Logger

	lifeMu sync.Mutex

	mu     sync.Mutex
	conn   *connection
	snap   status.Snapshot
	status codec.KorasStatus
}

// NewKoras builds a disconnected facade.
func NewKoras(opts Options) *Koras {
	if opts.Profile.Name == "" {
		opts.Profile = ProfileKoras
	}
	opts = opts.withDefaults()

	return &Koras{
		opts: opts,
		log:  opts.Logger,
		snap: status.Snapshot{Health: status.HealthUnknown},
	}
}

// Connect opens the link, enables the motor, initializes the gripper and
// starts polling.
func (k *Koras) Connect() error {
	k.lifeMu.Lock()
	defer k.lifeMu.Unlock()

	if k.Connected() {
		return nil
	}

	conn, err := openConnection(k.opts, k.run)
	if err != nil {
		k.log.Printf("koras: connect failed (gripper=%s): %v", k.opts.Name, err)
		return err
	}

	k.mu.Lock()
	k.conn = conn
	k.mu.Unlock()

	if err := k.send(codec.KorasMotorEnable, 0); err != nil {
		k.log.Printf("koras: motor enable failed (gripper=%s): %v", k.opts.Name, err)
	}
	if err := k.send(codec.KorasInitialize, 0); err != nil {
		k.log.Printf("koras: initialize failed (gripper=%s): %v", k.opts.Name, err)
	}

	k.log.Printf("koras: connected (gripper=%s)", k.opts.Name)
	return nil
}

// Disconnect stops and disables the motor, then closes the link.
func (k *Koras) Disconnect() error {
	k.lifeMu.Lock()
	defer k.lifeMu.Unlock()

	if !k.Connected() {
		return nil
	}

	if err := k.send(codec.KorasMotorStop, 0); err != nil {
		k.log.Printf("koras: motor stop failed (gripper=%s): %v", k.opts.Name, err)
	}
	if err := k.send(codec.KorasMotorDisable, 0); err != nil {
		k.log.Printf("koras: motor disable failed (gripper=%s): %v", k.opts.Name, err)
	}

	k.mu.Lock()
	conn := k.conn
	k.conn = nil
	k.mu.Unlock()

	err := conn.close()

	k.mu.Lock()
	k.snap.Health = status.HealthDisconnected
	k.mu.Unlock()

	k.log.Printf("koras: disconnected (gripper=%s)", k.opts.Name)
	return err
}

// Connected reports whether the link is open.
func (k *Koras) Connected() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.conn != nil
}

func (k *Koras) run(ctx context.Context, _ bus.Transport, results <-chan poller.PollResult) {
	for {
		select {
		case <-ctx.Done():
			return
		case res := <-results:
			k.cycle(res)
		}
	}
}

func (k *Koras) cycle(res poller.PollResult) {
	if res.Err != nil {
		k.mu.Lock()
		recordPoll(&k.snap, res)
		k.mu.Unlock()
		k.log.Printf("koras: poll failed (gripper=%s): %v", k.opts.Name, res.Err)
		return
	}

	st, err := codec.DecodeKorasStatus(res.Registers)
	if err != nil {
		res.Err = err
		k.cycle(res)
		return
	}

	k.mu.Lock()
	recordPoll(&k.snap, res)
	k.snap.StatusWord = st.Raw
	k.snap.Position = st.FingerPosition
	k.status = st
	k.mu.Unlock()
}

// send writes one fixed-format command block.
func (k *Koras) send(cmd, value uint16) error {
	k.mu.Lock()
	conn := k.conn
	k.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	if err := conn.tr.WriteRegisters(k.opts.Profile.OutputAddr, []uint16{cmd, value}); err != nil {
		return fmt.Errorf("koras: command %d: %w", cmd, err)
	}
	return nil
}

// ---------------- Commands ----------------

// Init re-runs the gripper initialization.
func (k *Koras) Init() error {
	return k.send(codec.KorasInitialize, 0)
}

// Grip closes to a finger position (0..1000). Negative closes fully,
// above range opens fully.
func (k *Koras) Grip(distance int) error {
	switch {
	case distance < 0:
		return k.send(codec.KorasClose, 0)
	case distance > korasFingerMax:
		return k.send(codec.KorasOpen, 0)
	default:
		return k.send(codec.KorasFingerPosition, uint16(distance))
	}
}

// Release opens to a finger position (0..1000). Negative opens fully,
// above range closes fully.
func (k *Koras) Release(distance int) error {
	switch {
	case distance < 0:
		return k.send(codec.KorasOpen, 0)
	case distance > korasFingerMax:
		return k.send(codec.KorasClose, 0)
	default:
		return k.send(codec.KorasFingerPosition, uint16(distance))
	}
}

// Vacuum switches the vacuum gripper on or off.
func (k *Koras) Vacuum(on bool) error {
	if on {
		return k.send(codec.KorasVacuumOn, 0)
	}
	return k.send(codec.KorasVacuumOff, 0)
}

// SetVelocity sets motor speed [%], clamped to 0..100.
func (k *Koras) SetVelocity(pct int) error {
	return k.send(codec.KorasSetSpeed, uint16(clampPercent(pct)))
}

// SetForce sets motor torque [%], clamped to 0..100.
func (k *Koras) SetForce(pct int) error {
	return k.send(codec.KorasSetTorque, uint16(clampPercent(pct)))
}

// ---------------- Status ----------------

// Status returns the last decoded input block.
func (k *Koras) Status() codec.KorasStatus {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.status
}

// Position returns the motor position in mm.
func (k *Koras) Position() float64 {
	return float64(k.Status().MotorPosition) / 100.0
}

// Closed reports whether the gripper is closing or closed.
func (k *Koras) Closed() bool {
	return k.Status().Closing
}

// Snapshot returns a copy of the last decoded state.
func (k *Koras) Snapshot() status.Snapshot {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.snap
}
