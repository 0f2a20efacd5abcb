// internal/gripper/zimmer.go
package gripper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/tamzrod/modbus-gripper/internal/bus"
	"github.com/tamzrod/modbus-gripper/internal/codec"
	"github.com/tamzrod/modbus-gripper/internal/handshake"
	"github.com/tamzrod/modbus-gripper/internal/poller"
	"github.com/tamzrod/modbus-gripper/internal/status"
)

// request is one arm request handed to the device goroutine.
type request struct {
	frame    codec.CommandFrame
	dir      handshake.Direction
	waitInit bool

	done     chan error // buffered(1), receives exactly once
	signaled bool       // device goroutine only
}

func newRequest(frame codec.CommandFrame, dir handshake.Direction) *request {
	return &request{frame: frame, dir: dir, done: make(chan error, 1)}
}

func (r *request) complete(err error) {
	if r == nil || r.signaled {
		return
	}
	r.signaled = true
	r.done <- err
}

// Zimmer drives a Zimmer gripper through the data-transfer handshake.
//
// One device goroutine owns the handshake engine and is the only writer of the
// snapshot. Callers hand it arm requests over a channel and may wait on the
// request's completion channel.
type Zimmer struct {
	opts Options
	log  *log.Logger

	reqs chan *request

	lifeMu sync.Mutex // serializes Connect/Disconnect

	mu          sync.Mutex
	conn        *connection
	snap        status.Snapshot
	force       uint8
	velocity    uint8
	initialized bool
	base        uint16
	shift       uint16
	work        uint16
	lastFrame   codec.CommandFrame
}

// NewZimmer builds a disconnected facade.
func NewZimmer(opts Options) *Zimmer {
	if opts.Profile.Name == "" {
		opts.Profile = ProfileZimmerTurck
	}
	if opts.Force == 0 {
		opts.Force = 50
	}
	if opts.Velocity == 0 {
		opts.Velocity = 50
	}
	opts = opts.withDefaults()

	return &Zimmer{
		opts:     opts,
		log:      opts.Logger,
		reqs:     make(chan *request),
		force:    clampPercent(opts.Force),
		velocity: clampPercent(opts.Velocity),
		snap:     status.Snapshot{Health: status.HealthUnknown},
	}
}

// ---------------- Connection ----------------

// Connect opens the link and starts polling. Connecting twice is a no-op.
func (z *Zimmer) Connect() error {
	z.lifeMu.Lock()
	defer z.lifeMu.Unlock()

	if z.Connected() {
		return nil
	}

	conn, err := openConnection(z.opts, z.run)
	if err != nil {
		z.log.Printf("zimmer: connect failed (gripper=%s): %v", z.opts.Name, err)
		return err
	}

	z.mu.Lock()
	z.conn = conn
	z.initialized = false
	z.mu.Unlock()

	z.log.Printf("zimmer: connected (gripper=%s)", z.opts.Name)
	return nil
}

// Disconnect stops polling and closes the link. An in-flight sequence is
// abandoned without rollback and its waiter gets ErrDisconnected.
func (z *Zimmer) Disconnect() error {
	z.lifeMu.Lock()
	defer z.lifeMu.Unlock()

	z.mu.Lock()
	conn := z.conn
	z.conn = nil
	z.mu.Unlock()

	if conn == nil {
		return nil
	}

	err := conn.close()

	z.mu.Lock()
	z.snap.Health = status.HealthDisconnected
	z.snap.Armed = false
	z.snap.Step = 0
	z.mu.Unlock()

	z.log.Printf("zimmer: disconnected (gripper=%s)", z.opts.Name)
	return err
}

// Connected reports whether the link is open.
func (z *Zimmer) Connected() bool {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.conn != nil
}

// ---------------- Device goroutine ----------------

func (z *Zimmer) run(ctx context.Context, tr bus.Transport, results <-chan poller.PollResult) {
	eng := handshake.New(handshake.Config{
		RearmMode:   z.opts.Profile.RearmMode,
		StepTimeout: z.opts.StepTimeout,
	})

	var pending *request
	defer func() { pending.complete(ErrDisconnected) }()

	for {
		select {
		case <-ctx.Done():
			eng.Disarm()
			return

		case req := <-z.reqs:
			pending.complete(ErrSuperseded)
			pending = req

			if req.waitInit {
				z.mu.Lock()
				z.initialized = false
				z.mu.Unlock()
			}
			eng.Arm(req.frame, req.dir, time.Now())
			z.publishEngine(eng)

		case res := <-results:
			if z.cycle(eng, tr, res, pending) {
				pending = nil
			}
		}
	}
}

// cycle publishes one poll result and advances the engine.
// It returns true when the pending request is finished.
func (z *Zimmer) cycle(eng *handshake.Engine, tr bus.Transport, res poller.PollResult, pending *request) bool {
	if res.Err != nil {
		z.mu.Lock()
		recordPoll(&z.snap, res)
		z.mu.Unlock()
		z.log.Printf("zimmer: poll failed (gripper=%s): %v", z.opts.Name, res.Err)
		return false
	}

	raw := res.Registers[0]

	z.mu.Lock()
	recordPoll(&z.snap, res)
	z.snap.StatusWord = raw
	z.snap.Diagnosis = res.Registers[1]
	z.snap.Position = res.Registers[2]
	force, velocity := z.force, z.velocity
	z.mu.Unlock()

	eng.SetDrive(force, velocity)
	out := eng.Advance(codec.DecodeStatus(raw), res.At)

	if out.Write {
		if err := tr.WriteRegisters(z.opts.Profile.OutputAddr, out.Frame.Registers()); err != nil {
			eng.Disarm()
			z.publishEngine(eng)
			z.log.Printf("zimmer: step %d write failed, sequence halted (gripper=%s): %v", out.From, z.opts.Name, err)
			pending.complete(fmt.Errorf("zimmer: step %d write: %w", out.From, err))
			return true
		}
		z.mu.Lock()
		z.lastFrame = out.Frame
		z.mu.Unlock()
	}

	if out.Advanced() {
		z.log.Printf("zimmer: step %d -> %d control=0x%04X (gripper=%s)", out.From, out.To, out.Frame.Control, z.opts.Name)
	}

	if out.Initialized {
		z.mu.Lock()
		z.initialized = true
		z.mu.Unlock()
	}

	// Publish before waking waiters so they observe the final step.
	z.publishEngine(eng)

	if out.Initialized && pending != nil && pending.waitInit {
		pending.complete(nil)
	}

	switch {
	case out.Err != nil:
		z.log.Printf("zimmer: sequence stalled at step %d (gripper=%s): %v", out.From, z.opts.Name, out.Err)
		pending.complete(out.Err)
		return true
	case out.Done:
		pending.complete(nil)
		return true
	}
	return false
}

func (z *Zimmer) publishEngine(eng *handshake.Engine) {
	z.mu.Lock()
	z.snap.Step = eng.Step()
	z.snap.Armed = eng.Armed()
	z.mu.Unlock()
}

// submit hands a request to the device goroutine.
func (z *Zimmer) submit(ctx context.Context, req *request) error {
	z.mu.Lock()
	conn := z.conn
	z.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	select {
	case z.reqs <- req:
		return nil
	case <-conn.done:
		return ErrDisconnected
	case <-ctx.Done():
		return ctx.Err()
	}
}

// dispatch arms the engine and, when wait is set, waits for the sequence.
// Cancelling ctx stops the wait, not the sequence.
func (z *Zimmer) dispatch(ctx context.Context, req *request, wait bool) error {
	if err := z.submit(ctx, req); err != nil {
		return err
	}
	if !wait {
		return nil
	}

	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// frame builds a command frame with the current drive settings and records the
// commanded positions.
func (z *Zimmer) frame(mode uint8, base, shift, work uint16) codec.CommandFrame {
	z.mu.Lock()
	defer z.mu.Unlock()

	z.base, z.shift, z.work = base, shift, work

	return codec.EncodeCommand(
		codec.CmdDataTransfer,
		mode,
		0,
		z.opts.Profile.Tolerance,
		z.force,
		z.velocity,
		base,
		shift,
		0,
		work,
	)
}

// ---------------- Commands ----------------

// Init runs the handshake with motor control on and blocks until the device
// acknowledged the data transfer (step 3). The sequence then returns to base.
func (z *Zimmer) Init(ctx context.Context) error {
	f := z.frame(codec.ModeMotorControlOn, positionMargin, z.opts.Profile.HomeShift, z.opts.MaxStroke)

	req := newRequest(f, handshake.ToBase)
	req.waitInit = true

	if err := z.dispatch(ctx, req, true); err != nil {
		return err
	}
	z.log.Printf("zimmer: initialized (gripper=%s)", z.opts.Name)
	return nil
}

// Grip closes the jaws to the given gap [0.01 mm]. A negative gap closes fully.
func (z *Zimmer) Grip(ctx context.Context, gap int, wait bool) error {
	if !z.Initialized() {
		return ErrNotInitialized
	}

	work := GripTarget(z.opts.MaxStroke, gap)
	z.log.Printf("zimmer: grip gap=%d work=%d (gripper=%s)", gap, work, z.opts.Name)

	f := z.frame(codec.ModeMotorControlOn, positionMargin, shiftBelow(work), work)
	return z.dispatch(ctx, newRequest(f, handshake.ToWork), wait)
}

// Release opens the jaws to the given gap [0.01 mm]. A negative gap opens fully.
func (z *Zimmer) Release(ctx context.Context, gap int, wait bool) error {
	if !z.Initialized() {
		return ErrNotInitialized
	}

	base := ReleaseTarget(z.opts.MaxStroke, gap)
	z.log.Printf("zimmer: release gap=%d base=%d (gripper=%s)", gap, base, z.opts.Name)

	f := z.frame(codec.ModeMotorControlOn, base, shiftAbove(base), z.opts.MaxStroke)
	return z.dispatch(ctx, newRequest(f, handshake.ToBase), wait)
}

// CustomPosition moves to an arbitrary gap, choosing grip or release from the
// last known actual position.
func (z *Zimmer) CustomPosition(ctx context.Context, gap int, wait bool) error {
	target := releasePosition(z.opts.MaxStroke, gap)
	actual := int(z.ActualPosition())

	switch {
	case target < actual:
		return z.Release(ctx, gap, wait)
	case target > actual:
		return z.Grip(ctx, gap, wait)
	default:
		z.log.Printf("zimmer: jaw gap is already at %d (gripper=%s)", gap, z.opts.Name)
		return nil
	}
}

// OutsideHoming references the position system against the outer end stop.
func (z *Zimmer) OutsideHoming(ctx context.Context) error {
	return z.home(ctx, codec.ModeOutsideHoming)
}

// InsideHoming references the position system against the inner end stop.
func (z *Zimmer) InsideHoming(ctx context.Context) error {
	return z.home(ctx, codec.ModeInsideHoming)
}

func (z *Zimmer) home(ctx context.Context, mode uint8) error {
	f := z.frame(mode, positionMargin, z.opts.Profile.HomeShift, z.opts.MaxStroke)
	return z.dispatch(ctx, newRequest(f, handshake.ToBase), false)
}

// SetForce sets grip force [%], clamped to 0..100. It applies to every frame
// written from the next poll cycle on.
func (z *Zimmer) SetForce(pct int) {
	z.mu.Lock()
	z.force = clampPercent(pct)
	z.mu.Unlock()
}

// SetVelocity sets drive velocity [%], clamped to 0..100.
func (z *Zimmer) SetVelocity(pct int) {
	z.mu.Lock()
	z.velocity = clampPercent(pct)
	z.mu.Unlock()
}

// ---------------- Status ----------------

func (z *Zimmer) Initialized() bool {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.initialized
}

// Snapshot returns a copy of the last decoded state.
func (z *Zimmer) Snapshot() status.Snapshot {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.snap
}

// ActualPosition is the last read jaw position [0.01 mm].
func (z *Zimmer) ActualPosition() uint16 {
	return z.Snapshot().Position
}

// StatusWord returns the raw status word and its bits, most significant first.
func (z *Zimmer) StatusWord() (uint16, [16]bool) {
	raw := z.Snapshot().StatusWord
	return raw, codec.Bits(raw)
}

// Diagnosis returns the raw diagnosis code and its message.
func (z *Zimmer) Diagnosis() (uint16, string) {
	code := z.Snapshot().Diagnosis
	return code, codec.Diagnosis(code)
}

// Positions returns the last commanded base, shift and work positions.
func (z *Zimmer) Positions() (base, shift, work uint16) {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.base, z.shift, z.work
}

// CommandFrame returns the frame most recently written to the device.
func (z *Zimmer) CommandFrame() codec.CommandFrame {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.lastFrame
}

// IsStall reports whether err is a handshake step timeout.
func IsStall(err error) bool { return errors.Is(err, handshake.ErrStall) }
