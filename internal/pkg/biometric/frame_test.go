package biometric

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum_KnownVectors(t *testing.T) {
	// Standard CRC-16/X-25 check value.
	assert.Equal(t, uint16(0x906E), Checksum([]byte("123456789")))
	assert.Equal(t, uint16(0x0000), Checksum(nil))
}

func TestChecksum_SensitiveToEveryByte(t *testing.T) {
	base := []byte{0xA5, 0x00, 0x01, 0x02, 0x03, 0x32, 0x00, 0x00}
	want := Checksum(base)
	for i := range base {
		mutated := append([]byte(nil), base...)
		mutated[i] ^= 0x01
		assert.NotEqual(t, want, Checksum(mutated), "flipping byte %d must change the checksum", i)
	}
}

func TestEncodeFrame_Layout(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	buf, err := encodeFrame(0x01020304, 0x40, payload)
	require.NoError(t, err)

	require.Len(t, buf, headerSize+len(payload)+crcSize)
	assert.Equal(t, byte(stx), buf[0])
	assert.Equal(t, uint32(0x01020304), binary.BigEndian.Uint32(buf[1:5]))
	assert.Equal(t, byte(0x40), buf[5])
	assert.Equal(t, uint16(len(payload)), binary.BigEndian.Uint16(buf[6:8]))
	assert.True(t, bytes.Equal(payload, buf[8:8+len(payload)]))

	wantCRC := swap16(Checksum(buf[:len(buf)-crcSize]))
	assert.Equal(t, wantCRC, binary.BigEndian.Uint16(buf[len(buf)-crcSize:]))
}

func TestEncodeFrame_PayloadTooLarge(t *testing.T) {
	_, err := encodeFrame(1, 0x30, make([]byte, maxPayload+1))
	assert.ErrorIs(t, err, ErrPayloadTooLarge)

	// The cap itself is allowed.
	_, err = encodeFrame(1, 0x30, make([]byte, maxPayload))
	assert.NoError(t, err)
}

func TestFrameRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		{0x00},
		{0x01, 0x02, 0x03},
		bytes.Repeat([]byte{0xAB}, maxPayload),
	}
	for _, payload := range cases {
		buf, err := encodeFrame(0xCAFEBABE, 0x33, payload)
		require.NoError(t, err)

		f, err := decodeFrame(buf)
		require.NoError(t, err)
		assert.Equal(t, uint32(0xCAFEBABE), f.Channel)
		assert.Equal(t, byte(0x33), f.Cmd)
		assert.Equal(t, len(payload), len(f.Payload))
		assert.True(t, bytes.Equal(payload, f.Payload))
	}
}

func TestDecodeFrame_BadStartByte(t *testing.T) {
	buf, err := encodeFrame(1, 0x30, nil)
	require.NoError(t, err)
	buf[0] = 0x00

	_, err = decodeFrame(buf)
	assert.ErrorIs(t, err, ErrMalformedFrame)
}

func TestDecodeFrame_CorruptedPayload(t *testing.T) {
	buf, err := encodeFrame(1, 0x30, []byte{0x01, 0x02})
	require.NoError(t, err)
	buf[8] ^= 0xFF

	_, err = decodeFrame(buf)
	assert.ErrorIs(t, err, ErrBadCRC)
}

func TestDecodeFrame_LengthMismatch(t *testing.T) {
	buf, err := encodeFrame(1, 0x30, []byte{0x01, 0x02, 0x03})
	require.NoError(t, err)

	_, err = decodeFrame(buf[:len(buf)-1])
	assert.ErrorIs(t, err, ErrMalformedFrame)
}

func TestExtractFrame_PartialAndRemainder(t *testing.T) {
	first, err := encodeFrame(1, 0x32, []byte{0x09})
	require.NoError(t, err)
	second, err := encodeFrame(1, 0x40, nil)
	require.NoError(t, err)

	// A partial prefix yields nothing.
	_, _, ok, err := extractFrame(first[:5])
	require.NoError(t, err)
	assert.False(t, ok)

	// Two concatenated frames come off one at a time.
	stream := append(append([]byte(nil), first...), second...)
	complete, rest, ok, err := extractFrame(stream)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, bytes.Equal(first, complete))
	assert.True(t, bytes.Equal(second, rest))

	// Garbage at the head is unrecoverable.
	_, _, _, err = extractFrame([]byte{0x00, 0x01})
	assert.ErrorIs(t, err, ErrMalformedFrame)
}
