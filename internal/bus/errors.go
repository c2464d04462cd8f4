package bus

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownIO marks an access to an I/O address no register answers.
	ErrUnknownIO = errors.New("unknown I/O register")
	// ErrUnmapped marks an access no region could route.
	ErrUnmapped = errors.New("unmapped address")
)

// AccessError describes a fatal bus access.
type AccessError struct {
	Op    string // "read" or "write"
	Addr  uint16
	Value byte // written value; zero for reads
	Err   error
}

func (e *AccessError) Error() string {
	if e.Op == "write" {
		return fmt.Sprintf("bus: write %04X = %02X: %v", e.Addr, e.Value, e.Err)
	}
	return fmt.Sprintf("bus: %s %04X: %v", e.Op, e.Addr, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }
