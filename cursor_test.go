package binrw

import (
	"math"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

func TestSkip(t *testing.T) {
	r := NewReader(make([]byte, 8))
	require.True(t, r.Skip(0))
	require.True(t, r.Skip(5))
	require.Equal(t, 5, r.Pos())
	require.Equal(t, 3, r.Left())
	require.True(t, r.Skip(-5))
	require.Equal(t, 0, r.Pos())
	require.True(t, r.Skip(8))
	require.True(t, r.Empty())
	require.False(t, r.Failed())
}

func TestSkipPastEnd(t *testing.T) {
	w := NewWriter(make([]byte, 4))
	require.True(t, w.Skip(3))
	require.False(t, w.Skip(2))
	require.True(t, w.Failed())
	require.Equal(t, 3, w.Pos())

	w = NewWriter(make([]byte, 4))
	require.False(t, w.Skip(math.MaxInt))
	require.ErrorIs(t, w.Err(), ErrOutOfBounds)
	require.Zero(t, w.Pos())
}

func TestSkipBeforeStart(t *testing.T) {
	r := NewReader(make([]byte, 4))
	r.Skip(2)
	require.False(t, r.Skip(-3))
	require.True(t, r.Failed())
	require.Equal(t, 2, r.Pos())

	for _, off := range []int{math.MinInt, math.MinInt + 1, -5} {
		r := NewReader(make([]byte, 4))
		r.Skip(4)
		require.False(t, r.Skip(off), "skip %d", off)
		require.ErrorIs(t, r.Err(), ErrOutOfBounds)
		require.Equal(t, 4, r.Pos())
		require.Zero(t, r.Left())
	}
}

func TestSkipInvertible(t *testing.T) {
	condition := func(size uint8, start uint8, d int8) bool {
		n := int(size)
		r := NewReader(make([]byte, n))
		r.Skip(int(start) % (n + 1))
		before := r.Pos()
		if !r.Skip(int(d)) {
			return r.Failed() && r.Pos() == before
		}
		if !r.Skip(-int(d)) {
			return false
		}
		return r.Pos() == before && !r.Failed()
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func TestFailureIsSticky(t *testing.T) {
	buf := make([]byte, 8)
	r := NewReader(buf)
	require.True(t, r.Skip(2))
	require.Nil(t, r.View(7))
	require.True(t, r.Failed())

	pos := r.Pos()
	var v uint8
	require.False(t, Read(r, &v))
	require.False(t, Peek(r, &v))
	require.False(t, r.Skip(1))
	require.False(t, r.Skip(-1))
	require.Nil(t, r.View(1))
	require.Nil(t, r.PeekView(0))
	require.False(t, ReadSlice(r, make([]byte, 1)))
	require.Equal(t, pos, r.Pos())
	require.ErrorIs(t, r.Err(), ErrOutOfBounds)

	w := NewWriter(buf)
	w.NotifyError()
	require.False(t, Write(w, uint8(1)))
	require.False(t, WriteSlice(w, []uint16{1}))
	require.False(t, w.WriteBytes(nil))
	require.False(t, w.Skip(0))
	require.Equal(t, 0, w.Pos())
	require.ErrorIs(t, w.Err(), ErrRejected)
}

func TestNotifyErrorKeepsFirstCause(t *testing.T) {
	r := NewReader(nil)
	ReadValue[uint8](r)
	r.NotifyError()
	require.True(t, r.Failed())
	require.ErrorIs(t, r.Err(), ErrOutOfBounds)
}

func TestEmptyBuffer(t *testing.T) {
	r := NewReader(nil)
	require.True(t, r.Empty())
	require.Equal(t, 0, r.Left())
	require.Empty(t, r.View(0))
	require.False(t, r.Failed())
}
