package binrw

import (
	"encoding/binary"
	"reflect"
	"unsafe"
)

// Fixed is the set of bit-copyable types: their bytes are a complete,
// self-contained representation of the value. Anything else goes through
// Decodable/Encodable.
type Fixed interface {
	~bool |
		~int8 | ~uint8 |
		~int16 | ~uint16 |
		~int32 | ~uint32 |
		~int64 | ~uint64 |
		~float32 | ~float64
}

var hostLittle = func() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1
}()

// needSwap reports whether values stored in host order must be reversed to
// match order.
func needSwap(order binary.ByteOrder) bool {
	var probe [2]byte
	order.PutUint16(probe[:], 1)
	return (probe[0] == 1) != hostLittle
}

// SizeOf returns the encoded size of a Fixed type.
func SizeOf[T Fixed]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

// bytesOf exposes the memory of v as a byte slice of its exact size.
func bytesOf[T Fixed](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}

// sliceBytes exposes the memory backing s as bytes.
func sliceBytes[T Fixed](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*SizeOf[T]())
}

// reverseEach reverses every size-byte element of b in place.
func reverseEach(b []byte, size int) {
	if size < 2 {
		return
	}
	for off := 0; off+size <= len(b); off += size {
		e := b[off : off+size]
		for i, j := 0, size-1; i < j; i, j = i+1, j-1 {
			e[i], e[j] = e[j], e[i]
		}
	}
}

func isBool[T Fixed]() bool {
	return reflect.TypeOf((*T)(nil)).Elem().Kind() == reflect.Bool
}

// clampBools maps every non-zero byte to 1 so a bool never holds a bit
// pattern other than 0 or 1.
func clampBools(b []byte) {
	for i, c := range b {
		if c > 1 {
			b[i] = 1
		}
	}
}
