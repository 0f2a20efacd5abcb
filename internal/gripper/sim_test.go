// internal/gripper/sim_test.go
package gripper

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tamzrod/modbus-gripper/internal/bus"
	"github.com/tamzrod/modbus-gripper/internal/codec"
)

// simZimmer is a register-level Zimmer gripper behind an IO-Link master.
// It reacts to control words the way the device acknowledges them.
type simZimmer struct {
	mu sync.Mutex

	plcActive bool
	status    uint16
	diagnosis uint16
	position  uint16

	target     uint16
	motionLeft int // reads until a started move completes

	frames    []codec.CommandFrame
	failReads int
	failWrite bool
	closed    bool
}

func newSimZimmer() *simZimmer {
	return &simZimmer{
		plcActive: true,
		status:    codec.FlagAtBase | codec.FlagHomingOK,
		position:  positionMargin,
	}
}

func (s *simZimmer) ReadInputRegisters(addr, qty uint16) ([]uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failReads > 0 {
		s.failReads--
		return nil, errors.New("sim: read timeout")
	}
	if addr != ProfileZimmerTurck.InputAddr || qty != ProfileZimmerTurck.InputWords {
		return nil, errors.New("sim: wrong input geometry")
	}

	if s.status&codec.FlagInMotion != 0 {
		s.motionLeft--
		if s.motionLeft <= 0 {
			s.status &^= codec.FlagInMotion
			s.status |= codec.FlagMovementComplete
			s.position = s.target
			if s.status&codec.FlagMoveToWorkPending != 0 {
				s.status |= codec.FlagAtWork
			} else {
				s.status |= codec.FlagAtBase
			}
		}
	}

	st := s.status
	if s.plcActive {
		st |= codec.FlagPLCActive
	}
	return []uint16{st, s.diagnosis, s.position}, nil
}

func (s *simZimmer) WriteRegisters(addr uint16, regs []uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrite {
		return errors.New("sim: write rejected")
	}
	if addr != ProfileZimmerTurck.OutputAddr || len(regs) != codec.CommandFrameWords {
		return errors.New("sim: partial frame")
	}

	f := codec.DecodeCommand(regs)
	s.frames = append(s.frames, f)

	switch f.Control {
	case codec.CmdDataTransfer:
		s.status |= codec.FlagDataTransferOK | codec.FlagMotorOn
	case codec.CmdNone:
		s.status &^= codec.FlagDataTransferOK
	case codec.CmdMoveToWork:
		s.startMove(f.Work, codec.FlagMoveToWorkPending)
	case codec.CmdMoveToBase:
		s.startMove(f.Base, codec.FlagMoveToBasePending)
	case codec.CmdResetDirectionFlag:
		s.status &^= codec.FlagMoveToWorkPending | codec.FlagMoveToBasePending
	}
	return nil
}

func (s *simZimmer) startMove(target uint16, pending uint16) {
	s.status &^= codec.FlagMovementComplete | codec.FlagAtBase | codec.FlagAtWork
	s.status |= codec.FlagInMotion | pending
	s.target = target
	s.motionLeft = 3
}

func (s *simZimmer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *simZimmer) setPLCActive(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plcActive = on
}

func (s *simZimmer) setFailReads(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReads = n
}

func (s *simZimmer) setFailWrite(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrite = on
}

func (s *simZimmer) lastFrame() codec.CommandFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return codec.CommandFrame{}
	}
	return s.frames[len(s.frames)-1]
}

func (s *simZimmer) frameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func (s *simZimmer) controls() []uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uint16, 0, len(s.frames))
	for _, f := range s.frames {
		out = append(out, f.Control)
	}
	return out
}

func (s *simZimmer) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// ---- helpers ----

func dialSim(s bus.Transport) bus.Factory {
	return func() (bus.Transport, error) { return s, nil }
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
