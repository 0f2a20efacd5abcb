// internal/writer/types.go
package writer

import (
	"time"

	"github.com/tamzrod/modbus-gripper/internal/status"
)

// Plan places one gripper's status block in remote memory.
type Plan struct {
	Endpoint   string
	Address    uint16 // first holding register of the block
	DeviceName string
}

// StatusWriter is the delivery-only contract for the status mirror.
type StatusWriter interface {
	WriteStatus(s status.Snapshot, now time.Time) error
}

// endpointClient is the exact contract the writer uses.
type endpointClient interface {
	WriteRegisters(addr uint16, regs []uint16) error
}
