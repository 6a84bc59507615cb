// Package checksum implements the integrity sums used by handheld save images.
//
// Every function here is pure: it recomputes from the bytes it is given and never
// trusts a previously stored value.
package checksum

import "encoding/binary"

// Sum32 adds the little-endian 32-bit words of data to initial, folds the high
// half into the low half and returns the low 16 bits. GBA flash sectors use it.
// Trailing bytes that do not form a full word are ignored.
func Sum32(data []byte, initial uint32) uint16 {
	result := initial
	for i := 0; i+4 <= len(data); i += 4 {
		result += binary.LittleEndian.Uint32(data[i:])
	}

	return uint16(result + (result >> 16))
}

// Words16 sums the little-endian 16-bit words of data, wrapping at 16 bits.
func Words16(data []byte) uint16 {
	var sum uint16
	for i := 0; i+2 <= len(data); i += 2 {
		sum += binary.LittleEndian.Uint16(data[i:])
	}

	return sum
}

// ByteSum returns the plain sum of bytes. Callers pass the span that excludes
// the stored checksum field.
func ByteSum(data []byte) uint32 {
	var sum uint32
	for _, b := range data {
		sum += uint32(b)
	}

	return sum
}

// Gen1 returns the inverted 8-bit byte sum used by Game Boy main data.
func Gen1(data []byte) uint8 {
	var sum uint8
	for _, b := range data {
		sum += b
	}

	return ^sum
}
