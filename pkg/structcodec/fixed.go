package structcodec

import (
	"reflect"
	"unsafe"

	"github.com/rawbytedev/binrw"
)

// writeFixed writes n consecutive values of kind k starting at p. Named types
// share the layout of their underlying kind, so p is reinterpreted.
func writeFixed(w *binrw.Writer, k reflect.Kind, p unsafe.Pointer, n int) {
	switch k {
	case reflect.Bool:
		put[bool](w, p, n)
	case reflect.Int8:
		put[int8](w, p, n)
	case reflect.Uint8:
		put[uint8](w, p, n)
	case reflect.Int16:
		put[int16](w, p, n)
	case reflect.Uint16:
		put[uint16](w, p, n)
	case reflect.Int32:
		put[int32](w, p, n)
	case reflect.Uint32:
		put[uint32](w, p, n)
	case reflect.Int64:
		put[int64](w, p, n)
	case reflect.Uint64:
		put[uint64](w, p, n)
	case reflect.Float32:
		put[float32](w, p, n)
	case reflect.Float64:
		put[float64](w, p, n)
	default:
		panic("structcodec: not fixed: " + k.String())
	}
}

func readFixed(r *binrw.Reader, k reflect.Kind, p unsafe.Pointer, n int) {
	switch k {
	case reflect.Bool:
		get[bool](r, p, n)
	case reflect.Int8:
		get[int8](r, p, n)
	case reflect.Uint8:
		get[uint8](r, p, n)
	case reflect.Int16:
		get[int16](r, p, n)
	case reflect.Uint16:
		get[uint16](r, p, n)
	case reflect.Int32:
		get[int32](r, p, n)
	case reflect.Uint32:
		get[uint32](r, p, n)
	case reflect.Int64:
		get[int64](r, p, n)
	case reflect.Uint64:
		get[uint64](r, p, n)
	case reflect.Float32:
		get[float32](r, p, n)
	case reflect.Float64:
		get[float64](r, p, n)
	default:
		panic("structcodec: not fixed: " + k.String())
	}
}

func put[T binrw.Fixed](w *binrw.Writer, p unsafe.Pointer, n int) {
	binrw.WriteSlice(w, unsafe.Slice((*T)(p), n))
}

func get[T binrw.Fixed](r *binrw.Reader, p unsafe.Pointer, n int) {
	binrw.ReadSlice(r, unsafe.Slice((*T)(p), n))
}
