// internal/gripper/position.go
package gripper

// All positions are device units (0.01 mm). Jaw gaps are full gaps, so half a gap is
// one jaw's travel. Arithmetic runs on doubled values to keep the half-unit truncation.

// positionMargin separates the target from the shift position.
const positionMargin = 100

// DefaultMaxStroke is the tooltip gap (82.00 mm) halved plus 0.75 mm clearance.
const DefaultMaxStroke = 8200/2 + 75

// gripPosition is the unclamped work position for a gap.
func gripPosition(maxStroke uint16, gap int) int {
	return (2*int(maxStroke) - gap + 2*positionMargin) / 2
}

// releasePosition is the unclamped base position for a gap.
func releasePosition(maxStroke uint16, gap int) int {
	return (2*int(maxStroke) - gap - 2*positionMargin) / 2
}

// GripTarget returns the work position for grip. A negative gap means fully closed.
func GripTarget(maxStroke uint16, gap int) uint16 {
	if gap < 0 {
		return maxStroke
	}
	p := gripPosition(maxStroke, gap)
	if p > int(maxStroke) {
		return maxStroke
	}
	if p < 0 {
		return 0
	}
	return uint16(p)
}

// ReleaseTarget returns the base position for release. A negative gap means fully open.
func ReleaseTarget(maxStroke uint16, gap int) uint16 {
	if gap < 0 {
		return positionMargin
	}
	p := releasePosition(maxStroke, gap)
	if p < positionMargin {
		return positionMargin
	}
	return uint16(p)
}

func shiftBelow(p uint16) uint16 {
	if p < positionMargin {
		return 0
	}
	return p - positionMargin
}

func shiftAbove(p uint16) uint16 {
	if p > 0xFFFF-positionMargin {
		return 0xFFFF
	}
	return p + positionMargin
}

func clampPercent(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return uint8(v)
}
