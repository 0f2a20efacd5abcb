// internal/codec/codec_test.go
package codec

import (
	"fmt"
	"strings"
	"testing"
)

func TestDecodeStatus_RoundTripDefinedBits(t *testing.T) {
	for raw := 0; raw <= 0xFFFF; raw++ {
		got := DecodeStatus(uint16(raw)).Raw()
		want := uint16(raw) & DefinedStatusBits
		if got != want {
			t.Fatalf("round trip mismatch raw=0x%04X: got=0x%04X want=0x%04X", raw, got, want)
		}
	}
}

func TestDecodeStatus_SingleFlags(t *testing.T) {
	s := DecodeStatus(FlagPLCActive | FlagMotorOn)
	if !s.PLCActive || !s.MotorOn {
		t.Fatalf("expected PLCActive and MotorOn set: %+v", s)
	}
	if s.DataTransferOK || s.InMotion || s.AtWork {
		t.Fatalf("unexpected flags set: %+v", s)
	}
}

func TestBits_MostSignificantFirst(t *testing.T) {
	b := Bits(FlagAtWork)
	for i, on := range b {
		want := i == 5 // 0x0400 is bit 10, index 15-10
		if on != want {
			t.Fatalf("bit index %d: got=%v want=%v", i, on, want)
		}
	}
}

func TestDiagnosis_Known(t *testing.T) {
	if got := Diagnosis(0x0402); got != "Jam" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestDiagnosis_UnknownCarriesCode(t *testing.T) {
	for _, code := range []uint16{0x0002, 0x1234, 0xFFFF, 0x0407} {
		msg := Diagnosis(code)
		hex := fmt.Sprintf("0x%04X", code)
		if !strings.Contains(msg, hex) {
			t.Fatalf("message %q does not contain %s", msg, hex)
		}
	}
}

func TestCommandFrame_Registers(t *testing.T) {
	f := EncodeCommand(CmdDataTransfer, ModeMotorControlOn, 0, 50, 40, 60, 100, 2000, 0, 4175)
	regs := f.Registers()

	want := []uint16{0x0001, 3 << 8, 50, 40<<8 | 60, 100, 2000, 0, 4175}
	if len(regs) != CommandFrameWords {
		t.Fatalf("expected %d words, got %d", CommandFrameWords, len(regs))
	}
	for i := range want {
		if regs[i] != want[i] {
			t.Fatalf("word %d: got=%d want=%d", i, regs[i], want[i])
		}
	}

	if back := DecodeCommand(regs); back != f {
		t.Fatalf("decode mismatch: got=%+v want=%+v", back, f)
	}
}

func TestDecodeKorasStatus(t *testing.T) {
	regs := []uint16{KorasBitMotorEnabled | KorasBitClosing, 1200, 300, 15, 640, 0, 0, 24}

	s, err := DecodeKorasStatus(regs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.MotorEnabled || !s.Closing || s.Opening || s.MotorFault {
		t.Fatalf("unexpected flags: %+v", s)
	}
	if s.FingerPosition != 640 || s.BusVoltage != 24 {
		t.Fatalf("unexpected values: finger=%d voltage=%d", s.FingerPosition, s.BusVoltage)
	}

	if _, err := DecodeKorasStatus(regs[:5]); err == nil {
		t.Fatalf("expected short block error, got nil")
	}
}
