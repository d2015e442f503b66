package store

import (
	"encoding/binary"
	"math"
)

// encodeEmbedding packs a float32 vector into a little-endian byte blob
// for storage in the vectors table.
func encodeEmbedding(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(x))
	}
	return buf
}

// decodeEmbedding unpacks a byte blob produced by encodeEmbedding back
// into a float32 vector of the given dimensionality.
func decodeEmbedding(buf []byte, dims int) []float32 {
	v := make([]float32, dims)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return v
}
