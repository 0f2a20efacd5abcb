// internal/bus/bus.go
package bus

// Transport is the register-level contract the gripper core consumes.
// Framing, checksums and retries belong to the implementation.
type Transport interface {
	ReadInputRegisters(addr, qty uint16) ([]uint16, error)
	WriteRegisters(addr uint16, regs []uint16) error
	Close() error
}

// Factory opens one transport. One attempt per call, no retries.
type Factory func() (Transport, error)
