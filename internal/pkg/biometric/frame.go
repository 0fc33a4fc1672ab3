package biometric

import (
	"encoding/binary"
	"fmt"
)

// Wire frame layout, fixed by the device vendor:
//
//	[STX:1][CHANNEL:4][CMD:1][LEN:2 BE][DATA:LEN][CRC16:2]
//
// The CRC trailer is the CRC-16/X-25 of everything before it, byte-swapped.
// Responses reuse the layout with CMD replaced by the ACK byte (CMD|0x80) and
// DATA starting with a RET status byte.

const (
	stx        = 0xA5
	headerSize = 8 // STX + CHANNEL + CMD + LEN
	crcSize    = 2
	maxPayload = 400

	ackFlag    = 0x80
	retSuccess = 0x00
)

type frame struct {
	Channel uint32
	Cmd     byte
	Payload []byte
}

// encodeFrame builds a complete wire frame. Payloads over maxPayload fail
// before any I/O happens.
func encodeFrame(channel uint32, cmd byte, payload []byte) ([]byte, error) {
	if len(payload) > maxPayload {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}

	buf := make([]byte, headerSize+len(payload)+crcSize)
	buf[0] = stx
	binary.BigEndian.PutUint32(buf[1:5], channel)
	buf[5] = cmd
	binary.BigEndian.PutUint16(buf[6:8], uint16(len(payload)))
	copy(buf[headerSize:], payload)

	crc := Checksum(buf[:headerSize+len(payload)])
	binary.BigEndian.PutUint16(buf[headerSize+len(payload):], swap16(crc))

	return buf, nil
}

// decodeFrame parses and validates one complete wire frame.
func decodeFrame(buf []byte) (frame, error) {
	if len(buf) < headerSize+crcSize {
		return frame{}, fmt.Errorf("%w: %d bytes", ErrMalformedFrame, len(buf))
	}
	if buf[0] != stx {
		return frame{}, fmt.Errorf("%w: bad start byte 0x%02X", ErrMalformedFrame, buf[0])
	}

	declared := int(binary.BigEndian.Uint16(buf[6:8]))
	if declared > maxPayload {
		return frame{}, fmt.Errorf("%w: declared length %d", ErrMalformedFrame, declared)
	}
	total := headerSize + declared + crcSize
	if len(buf) != total {
		return frame{}, fmt.Errorf("%w: declared length %d, received %d bytes",
			ErrMalformedFrame, declared, len(buf))
	}

	want := swap16(Checksum(buf[:total-crcSize]))
	got := binary.BigEndian.Uint16(buf[total-crcSize:])
	if want != got {
		return frame{}, fmt.Errorf("%w: want 0x%04X got 0x%04X", ErrBadCRC, want, got)
	}

	payload := make([]byte, declared)
	copy(payload, buf[headerSize:total-crcSize])

	return frame{
		Channel: binary.BigEndian.Uint32(buf[1:5]),
		Cmd:     buf[5],
		Payload: payload,
	}, nil
}

// extractFrame tries to slice one complete frame off the front of buf.
// Returns ok=false when more bytes are needed; returns an error when the
// stream cannot possibly resync into a valid frame.
func extractFrame(buf []byte) (complete, rest []byte, ok bool, err error) {
	if len(buf) == 0 {
		return nil, buf, false, nil
	}
	if buf[0] != stx {
		return nil, buf, false, fmt.Errorf("%w: bad start byte 0x%02X", ErrMalformedFrame, buf[0])
	}
	if len(buf) < headerSize {
		return nil, buf, false, nil
	}

	declared := int(binary.BigEndian.Uint16(buf[6:8]))
	if declared > maxPayload {
		return nil, buf, false, fmt.Errorf("%w: declared length %d", ErrMalformedFrame, declared)
	}
	total := headerSize + declared + crcSize
	if len(buf) < total {
		return nil, buf, false, nil
	}

	complete = make([]byte, total)
	copy(complete, buf[:total])
	if len(buf) > total {
		rest = make([]byte, len(buf)-total)
		copy(rest, buf[total:])
	}
	return complete, rest, true, nil
}
