package common

import (
	"errors"
	"reflect"
)

// MaxVarintLen is the longest encoding of a 64-bit unsigned varint.
const MaxVarintLen = 10

var ErrVarintOverflow = errors.New("varint overflows 64 bits")

// IsFixedKind reports whether k is a fixed-size primitive kind.
func IsFixedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// FixedSize returns the byte width for fixed-size primitive kinds.
func FixedSize(k reflect.Kind) int {
	switch k {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return 1
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 4
	case reflect.Int64, reflect.Uint64, reflect.Float64:
		return 8
	default:
		return -1
	}
}

// PutUvarint encodes x into b and returns the number of bytes written.
// b must hold at least UvarintLen(x) bytes.
func PutUvarint(b []byte, x uint64) int {
	i := 0
	for x >= 0x80 {
		b[i] = byte(x) | 0x80
		x >>= 7
		i++
	}
	b[i] = byte(x)
	return i + 1
}

// UvarintLen returns the encoded length of x.
func UvarintLen(x uint64) int {
	n := 1
	for x >= 0x80 {
		x >>= 7
		n++
	}
	return n
}

// Uvarint decodes a varint from b returning value and bytes consumed.
// n == 0 means b ended mid-varint; the error is set when the encoding does
// not fit in 64 bits.
func Uvarint(b []byte) (x uint64, n int, err error) {
	var s uint
	for i, c := range b {
		if i == MaxVarintLen-1 && c > 1 {
			return 0, i + 1, ErrVarintOverflow
		}
		x |= uint64(c&0x7F) << s
		if c&0x80 == 0 {
			return x, i + 1, nil
		}
		s += 7
	}
	return 0, 0, nil
}
