package biometric

// CRC-16/X-25: polynomial 0x1021 reflected (0x8408), init 0xFFFF, final
// complement. Matches the checksum the terminals compute over the frame
// header and payload.

const crcPoly = 0x8408

// Checksum computes the CRC-16/X-25 of data.
func Checksum(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ crcPoly
			} else {
				crc >>= 1
			}
		}
	}
	return ^crc
}

// swap16 exchanges the high and low bytes. The terminals expect the checksum
// trailer byte-swapped relative to the computed value.
func swap16(v uint16) uint16 {
	return v<<8 | v>>8
}
