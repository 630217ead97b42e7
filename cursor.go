// Package binrw provides bounds-checked binary cursors over caller-owned
// byte slices.
//
// A Reader or Writer borrows a buffer and moves a position through it. Every
// operation checks the remaining capacity before touching memory; the first
// violation latches the cursor into a failed state, after which every further
// operation is a no-op that reports failure. Callers can therefore chain many
// reads or writes and check Failed (or Err) once at the end:
//
//	r := binrw.NewReader(buf)
//	var hdr Header
//	binrw.Read(r, &hdr.Magic)
//	binrw.Read(r, &hdr.Version)
//	body := r.View(int(hdr.Len))
//	if r.Failed() {
//		return r.Err()
//	}
//
// Cursors never own, grow or copy the buffer they wrap. The buffer must stay
// alive and unchanged in length for as long as the cursor is used. A cursor
// is not safe for concurrent use; independent cursors over the same buffer
// are.
package binrw

import (
	"encoding/binary"
	"errors"
)

var (
	// ErrOutOfBounds is latched when an operation would move past either
	// end of the buffer.
	ErrOutOfBounds = errors.New("binrw: out of bounds")
	// ErrRejected is latched by NotifyError when a composite decoder rejects
	// a value it read successfully.
	ErrRejected = errors.New("binrw: value rejected")
)

type cursor struct {
	buf   []byte
	pos   int
	err   error
	order binary.ByteOrder
	swap  bool
}

func newCursor(buf []byte) cursor {
	return cursor{buf: buf, order: binary.LittleEndian, swap: !hostLittle}
}

func (c *cursor) setOrder(order binary.ByteOrder) {
	c.order = order
	c.swap = needSwap(order)
}

// fail latches err unless the cursor has already failed. The first cause wins.
func (c *cursor) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// reserve reports whether n bytes can be consumed at the current position.
func (c *cursor) reserve(n int) bool {
	if c.err != nil {
		return false
	}
	if n < 0 || n > c.Left() {
		c.fail(ErrOutOfBounds)
		return false
	}
	return true
}

// Skip moves the position by off bytes in either direction. It fails, leaving
// the position untouched, when the move would leave the buffer.
func (c *cursor) Skip(off int) bool {
	if c.err != nil {
		return false
	}
	if off > 0 && off > c.Left() {
		c.fail(ErrOutOfBounds)
		return false
	}
	if off < 0 && off < -c.pos {
		c.fail(ErrOutOfBounds)
		return false
	}
	c.pos += off
	return true
}

// Left returns the number of bytes between the position and the end of the
// buffer. It is not meaningful once the cursor has failed.
func (c *cursor) Left() int { return len(c.buf) - c.pos }

// Pos returns the number of bytes consumed so far.
func (c *cursor) Pos() int { return c.pos }

// Len returns the length of the wrapped buffer.
func (c *cursor) Len() int { return len(c.buf) }

// Empty reports whether no bytes are left after the position.
func (c *cursor) Empty() bool { return c.Left() <= 0 }

// Failed reports whether the cursor is in the failed state.
func (c *cursor) Failed() bool { return c.err != nil }

// Err returns the error that moved the cursor into the failed state, or nil.
func (c *cursor) Err() error { return c.err }

// Order returns the byte order used for fixed-size values.
func (c *cursor) Order() binary.ByteOrder { return c.order }

// NotifyError fails the cursor unconditionally. Composite decoders call it
// when a value read without error turns out to be invalid.
func (c *cursor) NotifyError() { c.fail(ErrRejected) }

// window returns the n bytes at the current position. Callers must reserve first.
func (c *cursor) window(n int) []byte { return c.buf[c.pos : c.pos+n : c.pos+n] }
