// internal/gripper/position_test.go
package gripper

import "testing"

func TestGripTarget(t *testing.T) {
	const stroke = DefaultMaxStroke

	if got := GripTarget(stroke, -1); got != stroke {
		t.Fatalf("grip(-1): got=%d want=%d", got, stroke)
	}

	if raw := gripPosition(stroke, 0); raw != stroke+positionMargin {
		t.Fatalf("grip(0) unclamped: got=%d want=%d", raw, stroke+positionMargin)
	}
	if got := GripTarget(stroke, 0); got != stroke {
		t.Fatalf("grip(0): got=%d want=%d", got, stroke)
	}

	if got := GripTarget(stroke, 2000); got != stroke-1000+positionMargin {
		t.Fatalf("grip(2000): got=%d want=%d", got, stroke-1000+positionMargin)
	}

	// Odd gaps truncate the half unit.
	if got := GripTarget(stroke, 2001); got != 3274 {
		t.Fatalf("grip(2001): got=%d want=3274", got)
	}

	if got := GripTarget(stroke, 100000); got != 0 {
		t.Fatalf("grip(huge): got=%d want=0", got)
	}
}

func TestReleaseTarget(t *testing.T) {
	const stroke = DefaultMaxStroke

	if got := ReleaseTarget(stroke, -1); got != positionMargin {
		t.Fatalf("release(-1): got=%d want=%d", got, positionMargin)
	}
	if got := ReleaseTarget(stroke, 2000); got != stroke-1000-positionMargin {
		t.Fatalf("release(2000): got=%d want=%d", got, stroke-1000-positionMargin)
	}
	if got := ReleaseTarget(stroke, 8200); got != positionMargin {
		t.Fatalf("release(8200): got=%d want=%d", got, positionMargin)
	}
}

func TestShiftBounds(t *testing.T) {
	if shiftBelow(50) != 0 {
		t.Fatalf("shiftBelow must not underflow")
	}
	if shiftAbove(0xFFF0) != 0xFFFF {
		t.Fatalf("shiftAbove must saturate")
	}
}
