// internal/writer/writer_test.go
package writer

import (
	"errors"
	"testing"
	"time"

	"github.com/tamzrod/modbus-gripper/internal/status"
)

// ---- fake endpoint client ----

type fakeEndpointClient struct {
	writes []writeCall
	fail   bool
}

type writeCall struct {
	addr uint16
	regs []uint16
}

func (f *fakeEndpointClient) WriteRegisters(addr uint16, regs []uint16) error {
	if f.fail {
		return errors.New("fake: connection reset")
	}
	f.writes = append(f.writes, writeCall{addr: addr, regs: append([]uint16(nil), regs...)})
	return nil
}

func (f *fakeEndpointClient) last() writeCall {
	return f.writes[len(f.writes)-1]
}

// ---- tests ----

func TestDeviceNameWrittenOnFullAssertOnly(t *testing.T) {
	cli := &fakeEndpointClient{}
	plan := Plan{Endpoint: "status-endpoint", Address: 100, DeviceName: "DEV-01"}
	sw := NewStatusWriter(plan, cli)
	now := time.Now()

	// ---- first write: FULL ASSERT ----
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthOK}, now); err != nil {
		t.Fatalf("initial full assert failed: %v", err)
	}

	w := cli.last()
	if w.addr != 100 || len(w.regs) != status.SlotsPerDevice {
		t.Fatalf("expected full block at 100, got addr=%d len=%d", w.addr, len(w.regs))
	}

	// "DEV-01" => 'D''E', 'V''-', '0''1', then zero padding
	wantName := []uint16{0x4445, 0x562D, 0x3031, 0, 0, 0, 0, 0}
	for i, v := range wantName {
		slot := status.SlotDeviceNameStart + i
		if w.regs[slot] != v {
			t.Fatalf("device name slot %d mismatch: got=0x%04X want=0x%04X", slot, w.regs[slot], v)
		}
	}

	// ---- second write: INCREMENTAL ONLY ----
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthOK, Position: 2175}, now); err != nil {
		t.Fatalf("incremental write failed: %v", err)
	}

	if len(cli.writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(cli.writes))
	}
	w = cli.last()
	if w.addr != 100+status.SlotPosition || len(w.regs) != 1 || w.regs[0] != 2175 {
		t.Fatalf("unexpected incremental write: %+v", w)
	}
}

func TestUnchangedSnapshotWritesNothing(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := NewStatusWriter(Plan{Endpoint: "ep"}, cli)
	now := time.Now()

	s := status.Snapshot{Health: status.HealthOK, StatusWord: 0x0141, Step: 3, Armed: true}
	_ = sw.WriteStatus(s, now)
	_ = sw.WriteStatus(s, now.Add(time.Second))

	if len(cli.writes) != 1 {
		t.Fatalf("expected 1 write, got %d", len(cli.writes))
	}
}

func TestSecondsInErrorResetOnRecovery(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := NewStatusWriter(Plan{Endpoint: "ep", Address: 0}, cli)
	now := time.Now()

	errSnap := status.Snapshot{
		Health:     status.HealthError,
		LastError:  "timeout",
		ErrorSince: now.Add(-3 * time.Second),
	}
	if err := sw.WriteStatus(errSnap, now); err != nil {
		t.Fatalf("error snapshot write failed: %v", err)
	}
	if got := cli.last().regs[status.SlotSecondsInError]; got != 3 {
		t.Fatalf("seconds_in_error: got=%d want=3", got)
	}

	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthOK}, now); err != nil {
		t.Fatalf("recovery snapshot write failed: %v", err)
	}

	// health, last error flag and seconds in error each change
	if len(cli.writes) != 4 {
		t.Fatalf("expected 4 writes, got %d", len(cli.writes))
	}
	w := cli.last()
	if w.addr != status.SlotSecondsInError || w.regs[0] != 0 {
		t.Fatalf("seconds_in_error not reset: %+v", w)
	}
}

func TestFailureForcesFullReassert(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := NewStatusWriter(Plan{Endpoint: "ep"}, cli)
	now := time.Now()

	_ = sw.WriteStatus(status.Snapshot{Health: status.HealthOK}, now)

	cli.fail = true
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthError, LastError: "x"}, now); err == nil {
		t.Fatalf("expected error, got nil")
	}

	cli.fail = false
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthError, LastError: "x"}, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cli.last().regs) != status.SlotsPerDevice {
		t.Fatalf("expected full block after failure, got %d regs", len(cli.last().regs))
	}
}

func TestEncodeDeviceNameSanitizesAndTruncates(t *testing.T) {
	regs := encodeDeviceNameRegs("A\x01BCDEFGHIJKLMNOPQRS")
	if regs[0] != uint16('A')<<8|uint16('?') {
		t.Fatalf("control byte not sanitized: 0x%04X", regs[0])
	}
	if regs[7] != uint16('N')<<8|uint16('O') {
		t.Fatalf("name not truncated at 16: 0x%04X", regs[7])
	}
}
