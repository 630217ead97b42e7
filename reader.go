package binrw

import "encoding/binary"

// Reader extracts values from a borrowed byte slice.
//
// Failed reads leave the destination zeroed: a value returned by ReadValue or
// PeekValue after a failure is always the zero value of its type, and slices
// passed to ReadSlice or PeekSlice are cleared.
type Reader struct {
	cursor
}

// NewReader returns a Reader positioned at the start of buf. Fixed-size
// values are decoded little-endian unless WithOrder says otherwise.
func NewReader(buf []byte) *Reader {
	return &Reader{cursor: newCursor(buf)}
}

// WithOrder sets the byte order for fixed-size values and returns r.
func (r *Reader) WithOrder(order binary.ByteOrder) *Reader {
	r.setOrder(order)
	return r
}

// View returns the next count bytes without copying and advances past them.
// It returns nil and fails the reader when fewer than count bytes remain.
// The returned slice aliases the reader's buffer.
func (r *Reader) View(count int) []byte {
	if !r.reserve(count) {
		return nil
	}
	v := r.window(count)
	r.pos += count
	return v
}

// PeekView is View without moving the position.
func (r *Reader) PeekView(count int) []byte {
	if !r.reserve(count) {
		return nil
	}
	return r.window(count)
}

// ReadBytes copies len(dst) bytes into dst.
func (r *Reader) ReadBytes(dst []byte) bool {
	return ReadSlice(r, dst)
}

// Read copies the next SizeOf[T] bytes into v and advances past them.
func Read[T Fixed](r *Reader, v *T) bool {
	if !peekValue(r, v) {
		return false
	}
	r.pos += SizeOf[T]()
	return true
}

// ReadValue is the value-returning form of Read. Use Failed to tell a
// decoded zero from a failure.
func ReadValue[T Fixed](r *Reader) T {
	var v T
	Read(r, &v)
	return v
}

// Peek decodes the next value like Read but leaves the position unchanged.
func Peek[T Fixed](r *Reader, v *T) bool {
	return peekValue(r, v)
}

// PeekValue is the value-returning form of Peek.
func PeekValue[T Fixed](r *Reader) T {
	var v T
	peekValue(r, &v)
	return v
}

// ReadSlice fills dst with len(dst) consecutive values and advances past them.
func ReadSlice[T Fixed](r *Reader, dst []T) bool {
	if !peekSlice(r, dst) {
		return false
	}
	r.pos += len(dst) * SizeOf[T]()
	return true
}

// PeekSlice fills dst like ReadSlice but leaves the position unchanged.
func PeekSlice[T Fixed](r *Reader, dst []T) bool {
	return peekSlice(r, dst)
}

func peekValue[T Fixed](r *Reader, v *T) bool {
	n := SizeOf[T]()
	if !r.reserve(n) {
		var zero T
		*v = zero
		return false
	}
	b := bytesOf(v)
	copy(b, r.window(n))
	if r.swap {
		reverseEach(b, n)
	}
	if isBool[T]() {
		clampBools(b)
	}
	return true
}

func peekSlice[T Fixed](r *Reader, dst []T) bool {
	size := SizeOf[T]()
	if !r.reserve(len(dst) * size) {
		clear(dst)
		return false
	}
	b := sliceBytes(dst)
	copy(b, r.window(len(b)))
	if r.swap {
		reverseEach(b, size)
	}
	if isBool[T]() {
		clampBools(b)
	}
	return true
}
