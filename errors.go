package pcd8544

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is matched by every *BoundsError.
	ErrOutOfBounds = errors.New("pcd8544: out of bounds")
	// ErrHalted is returned by drawing operations after Halt.
	ErrHalted = errors.New("pcd8544: halted")
)

// BoundsError reports a coordinate or buffer that does not fit the display.
//
// Drawing operations treat it as a soft condition: the affected part is
// skipped and nothing is sent to the controller for it. SetCursor returns it
// so callers can tell the cursor was not moved.
type BoundsError struct {
	X, Page int
	// Len and Need are set when a bitmap is shorter than its declared size.
	Len, Need int
}

func (e *BoundsError) Error() string {
	if e.Need != 0 {
		return fmt.Sprintf("pcd8544: bitmap has %d bytes, need %d", e.Len, e.Need)
	}
	return fmt.Sprintf("pcd8544: position (%d, page %d) out of bounds", e.X, e.Page)
}

// Is makes errors.Is(err, ErrOutOfBounds) work.
func (e *BoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}

// TransportError wraps a failure of the SPI bus or of the DC, RST or BL pins.
// It is never swallowed by the driver.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("pcd8544: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
