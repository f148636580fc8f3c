package pointstore

import (
	"encoding/binary"
	"math"

	"github.com/golang/snappy"
)

// encodeVarintUint32s packs a []uint32 as a concatenation of unsigned
// varints.
func encodeVarintUint32s(values []uint32) []byte {
	buf := make([]byte, 0, len(values)*2)
	scratch := make([]byte, binary.MaxVarintLen64)
	for _, v := range values {
		n := binary.PutUvarint(scratch, uint64(v))
		buf = append(buf, scratch[:n]...)
	}
	return buf
}

func decodeVarintUint32s(buf []byte, count int) []uint32 {
	out := make([]uint32, count)
	offset := 0
	for i := 0; i < count; i++ {
		v, n := binary.Uvarint(buf[offset:])
		out[i] = uint32(v)
		offset += n
	}
	return out
}

// encodeVarintInt64s packs a []int64 (which may contain -1 sentinels) as a
// concatenation of zigzag varints.
func encodeVarintInt64s(values []int64) []byte {
	buf := make([]byte, 0, len(values)*2)
	scratch := make([]byte, binary.MaxVarintLen64)
	for _, v := range values {
		n := binary.PutVarint(scratch, v)
		buf = append(buf, scratch[:n]...)
	}
	return buf
}

func decodeVarintInt64s(buf []byte, count int) []int64 {
	out := make([]int64, count)
	offset := 0
	for i := 0; i < count; i++ {
		v, n := binary.Varint(buf[offset:])
		out[i] = v
		offset += n
	}
	return out
}

// encodeDoubles packs a []float64 as little-endian IEEE-754 bit patterns.
func encodeDoubles(values []float64) []byte {
	buf := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

func decodeDoubles(buf []byte, count int) []float64 {
	out := make([]float64, count)
	for i := 0; i < count; i++ {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return out
}

// maybeCompress snappy-encodes buf when compressed is requested; the
// caller's State.Compressed flag is the single switch that makes both the
// encode and decode branches self-describing.
func maybeCompress(buf []byte, compressed bool) []byte {
	if !compressed {
		return buf
	}
	return snappy.Encode(nil, buf)
}

func maybeDecompress(buf []byte, compressed bool) ([]byte, error) {
	if !compressed {
		return buf, nil
	}
	return snappy.Decode(nil, buf)
}
