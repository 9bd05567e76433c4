// Package vector holds the storage layout of embedding vectors: IEEE-754 float32
// components, little-endian, concatenated in order, no length prefix.
package vector

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// BytesPerComponent is the encoded width of one float32 component.
const BytesPerComponent = 4

// ErrInvalidLength is returned by Decode when the blob is not a multiple of 4 bytes.
var ErrInvalidLength = errors.New("vector: blob length is not a multiple of 4")

// Encode serializes v into its little-endian float32 blob (4*len(v) bytes).
func Encode(v []float32) []byte {
	buf := make([]byte, len(v)*BytesPerComponent)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*BytesPerComponent:], math.Float32bits(f))
	}
	return buf
}

// EncodeString is Encode for command builders that take binary-safe string arguments.
func EncodeString(v []float32) string {
	return string(Encode(v))
}

// Decode parses a blob produced by Encode.
func Decode(b []byte) ([]float32, error) {
	if len(b)%BytesPerComponent != 0 {
		return nil, fmt.Errorf("%w: len=%d", ErrInvalidLength, len(b))
	}
	v := make([]float32, len(b)/BytesPerComponent)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*BytesPerComponent:]))
	}
	return v, nil
}

// DecodeString is Decode for values read back as strings (e.g. HGETALL replies).
func DecodeString(s string) ([]float32, error) {
	return Decode([]byte(s))
}
