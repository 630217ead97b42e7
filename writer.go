package binrw

import "encoding/binary"

// Writer stores values into a borrowed byte slice. It never grows the slice:
// a write that does not fit fails the writer and leaves the slot untouched.
type Writer struct {
	cursor
}

// NewWriter returns a Writer positioned at the start of buf.
func NewWriter(buf []byte) *Writer {
	return &Writer{cursor: newCursor(buf)}
}

// WithOrder sets the byte order for fixed-size values and returns w.
func (w *Writer) WithOrder(order binary.ByteOrder) *Writer {
	w.setOrder(order)
	return w
}

// Bytes returns the written prefix of the buffer.
func (w *Writer) Bytes() []byte { return w.buf[:w.pos] }

// WriteBytes copies p into the buffer.
func (w *Writer) WriteBytes(p []byte) bool {
	return WriteSlice(w, p)
}

// Write stores v at the current position and advances past it.
func Write[T Fixed](w *Writer, v T) bool {
	n := SizeOf[T]()
	if !w.reserve(n) {
		return false
	}
	dst := w.window(n)
	copy(dst, bytesOf(&v))
	if w.swap {
		reverseEach(dst, n)
	}
	w.pos += n
	return true
}

// WriteSlice stores every element of src and advances past them.
func WriteSlice[T Fixed](w *Writer, src []T) bool {
	size := SizeOf[T]()
	n := len(src) * size
	if !w.reserve(n) {
		return false
	}
	dst := w.window(n)
	copy(dst, sliceBytes(src))
	if w.swap {
		reverseEach(dst, size)
	}
	w.pos += n
	return true
}
