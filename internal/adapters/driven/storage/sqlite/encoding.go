package sqlite

import (
	"encoding/binary"
	"math"
)

// Embedding blob format contract: sequential IEEE-754 32-bit floats,
// little-endian, count = scheme dimension, length = dimension * 4
// bytes. The byte order is fixed rather than host-dependent so the
// database file means the same thing on every platform.

// encodeVector serializes a vector into the blob format.
func encodeVector(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector deserializes a blob back into a vector. The caller is
// responsible for checking the blob length against the expected
// dimension before trusting the result.
func decodeVector(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
