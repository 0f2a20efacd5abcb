// internal/handshake/engine.go
package handshake

import (
	"errors"
	"time"

	"github.com/tamzrod/modbus-gripper/internal/codec"
)

// ErrStall is reported when a step precondition stays unmet past Config.StepTimeout.
var ErrStall = errors.New("handshake: step precondition not satisfied in time")

// Direction selects the motion issued at step 4.
type Direction int

const (
	ToBase Direction = iota
	ToWork
)

func (d Direction) String() string {
	if d == ToWork {
		return "work"
	}
	return "base"
}

// Step indices.
const (
	StepPLCActive     = 0
	StepTransferAck   = 1
	StepRearm         = 2
	StepRearmAck      = 3
	StepMove          = 4
	StepMotionStarted = 5
	StepMotionDone    = 6
	StepDirectionIdle = 7
)

// Config is the per-profile engine config.
type Config struct {
	// RearmMode is the device mode sent with the data-transfer re-arm at step 2.
	RearmMode uint8

	// StepTimeout disarms a stalled sequence. Zero waits forever.
	StepTimeout time.Duration
}

// Output is the result of one Advance call.
// At most one frame is written per poll cycle.
type Output struct {
	From, To int

	Write bool
	Frame codec.CommandFrame

	// Initialized is true on the cycle that completes step 3.
	Initialized bool
	// Done is true on the cycle that disarms the engine.
	Done bool
	Err  error
}

// Advanced reports whether the step moved this cycle.
func (o Output) Advanced() bool { return o.From != o.To || o.Done }

// Engine is the Zimmer data-transfer / motion handshake.
// It is not safe for concurrent use: one goroutine owns it.
type Engine struct {
	cfg Config

	step        int
	armed       bool
	dir         Direction
	initialized bool
	frame       codec.CommandFrame
	enteredAt   time.Time
}

// New creates a disarmed engine at step 0.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Arm loads a prepared frame and restarts the sequence at step 0.
func (e *Engine) Arm(frame codec.CommandFrame, dir Direction, now time.Time) {
	e.frame = frame
	e.dir = dir
	e.step = StepPLCActive
	e.armed = true
	e.enteredAt = now
}

// Disarm abandons any in-flight sequence without writing.
func (e *Engine) Disarm() {
	e.armed = false
	e.step = StepPLCActive
}

// SetDrive updates force and velocity on the frame written by later steps.
func (e *Engine) SetDrive(force, velocity uint8) {
	e.frame.Force = force
	e.frame.Velocity = velocity
}

func (e *Engine) Step() int                 { return e.step }
func (e *Engine) Armed() bool               { return e.armed }
func (e *Engine) Initialized() bool         { return e.initialized }
func (e *Engine) Direction() Direction      { return e.dir }
func (e *Engine) Frame() codec.CommandFrame { return e.frame }

// Advance evaluates the current step against the current status word.
// Only the current step is considered; nothing fires while disarmed.
func (e *Engine) Advance(s codec.StatusWord, now time.Time) Output {
	out := Output{From: e.step, To: e.step}
	if !e.armed {
		return out
	}

	switch e.step {
	case StepPLCActive:
		if s.PLCActive {
			e.write(&out)
			e.next(&out, StepTransferAck, now)
		}

	case StepTransferAck:
		if s.DataTransferOK && s.MotorOn {
			e.frame.Control = codec.CmdNone
			e.write(&out)
			e.next(&out, StepRearm, now)
		}

	case StepRearm:
		if !s.DataTransferOK {
			e.frame.Control = codec.CmdDataTransfer
			e.frame.DeviceMode = e.cfg.RearmMode
			e.frame.WorkpieceNo = 0
			e.write(&out)
			e.next(&out, StepRearmAck, now)
		}

	case StepRearmAck:
		if s.DataTransferOK {
			e.frame.Control = codec.CmdNone
			e.write(&out)
			e.initialized = true
			out.Initialized = true
			e.next(&out, StepMove, now)
		}

	case StepMove:
		if !s.DataTransferOK {
			switch {
			case e.dir == ToWork:
				e.frame.Control = codec.CmdMoveToWork
				e.write(&out)
				e.next(&out, StepMotionStarted, now)
			case !s.AtBase:
				e.frame.Control = codec.CmdMoveToBase
				e.write(&out)
				e.next(&out, StepMotionStarted, now)
			default:
				// Already at base: no motion will start, wait for idle direction flags.
				e.write(&out)
				e.next(&out, StepDirectionIdle, now)
			}
		}

	case StepMotionStarted:
		if s.InMotion && !s.MovementComplete {
			e.next(&out, StepMotionDone, now)
		}

	case StepMotionDone:
		if !s.InMotion && s.MovementComplete {
			e.frame.Control = codec.CmdResetDirectionFlag
			e.write(&out)
			e.next(&out, StepDirectionIdle, now)
		}

	case StepDirectionIdle:
		if !s.MoveToWorkPending && !s.MoveToBasePending {
			e.Disarm()
			out.To = e.step
			out.Done = true
		}
	}

	if !out.Advanced() && e.cfg.StepTimeout > 0 && now.Sub(e.enteredAt) > e.cfg.StepTimeout {
		e.Disarm()
		out.To = e.step
		out.Err = ErrStall
	}

	return out
}

func (e *Engine) write(out *Output) {
	out.Write = true
	out.Frame = e.frame
}

func (e *Engine) next(out *Output, step int, now time.Time) {
	e.step = step
	e.enteredAt = now
	out.To = step
}
