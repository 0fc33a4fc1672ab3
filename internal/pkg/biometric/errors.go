package biometric

import (
	"errors"
	"fmt"
)

var (
	ErrNotConnected       = errors.New("not connected")
	ErrPayloadTooLarge    = errors.New("payload exceeds maximum frame size")
	ErrMalformedFrame     = errors.New("malformed frame")
	ErrBadCRC             = errors.New("frame checksum mismatch")
	ErrAckMismatch        = errors.New("unexpected ack or out-of-order response")
	ErrTimeout            = errors.New("device command timed out")
	ErrInvalidRecordCount = errors.New("record count must be between 1 and 25")
)

// DeviceError is a non-success RET status reported by the terminal itself.
type DeviceError struct {
	Cmd  byte
	Code byte
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device reported error 0x%02X for command 0x%02X", e.Code, e.Cmd)
}
