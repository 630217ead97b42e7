package binrw

import (
	"unsafe"

	"github.com/rawbytedev/binrw/internal/common"
)

// ReadUvarint decodes an unsigned LEB128 varint. An encoding longer than
// ten bytes or overflowing 64 bits rejects the value; a truncated one fails
// with ErrOutOfBounds. The position only moves on success.
func ReadUvarint(r *Reader) uint64 {
	if r.Failed() {
		return 0
	}
	x, n, err := common.Uvarint(r.PeekView(min(r.Left(), common.MaxVarintLen)))
	switch {
	case err != nil:
		r.NotifyError()
		return 0
	case n == 0:
		r.fail(ErrOutOfBounds)
		return 0
	}
	r.pos += n
	return x
}

// WriteUvarint encodes x as an unsigned LEB128 varint.
func WriteUvarint(w *Writer, x uint64) bool {
	var scratch [common.MaxVarintLen]byte
	n := common.PutUvarint(scratch[:], x)
	return w.WriteBytes(scratch[:n])
}

// ReadCount reads a varint element count and checks that that many elements
// of at least elemSize bytes each can still be read. Counts that cannot fit
// fail the reader, so the result is safe to allocate from.
func ReadCount(r *Reader, elemSize int) int {
	n := ReadUvarint(r)
	if r.Failed() {
		return 0
	}
	if n > uint64(r.Left()/max(elemSize, 1)) {
		r.fail(ErrOutOfBounds)
		return 0
	}
	return int(n)
}

// ReadLenBytes reads a varint length followed by that many bytes. The result
// aliases the reader's buffer.
func ReadLenBytes(r *Reader) []byte {
	n := ReadCount(r, 1)
	if r.Failed() {
		return nil
	}
	return r.View(n)
}

// WriteLenBytes writes len(p) as a varint followed by p. Nothing is written
// unless both fit.
func WriteLenBytes(w *Writer, p []byte) bool {
	if w.Failed() {
		return false
	}
	if common.UvarintLen(uint64(len(p)))+len(p) > w.Left() {
		w.fail(ErrOutOfBounds)
		return false
	}
	return WriteUvarint(w, uint64(len(p))) && w.WriteBytes(p)
}

// ReadString reads a length-prefixed string. The bytes are copied.
func ReadString(r *Reader) string {
	return string(ReadLenBytes(r))
}

// WriteString writes s with a varint length prefix. The string bytes are
// only read, so they are not copied first.
func WriteString(w *Writer, s string) bool {
	return WriteLenBytes(w, unsafe.Slice(unsafe.StringData(s), len(s)))
}
