package binrw

import (
	"math"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

func TestUvarintRoundTrip(t *testing.T) {
	condition := func(x uint64) bool {
		buf := make([]byte, 10)
		w := NewWriter(buf)
		if !WriteUvarint(w, x) {
			return false
		}
		r := NewReader(w.Bytes())
		return ReadUvarint(r) == x && r.Empty() && !r.Failed()
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func TestUvarintKnownEncodings(t *testing.T) {
	cases := []struct {
		val uint64
		enc []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
		{math.MaxUint64, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}},
	}
	for _, tc := range cases {
		w := NewWriter(make([]byte, 10))
		require.True(t, WriteUvarint(w, tc.val))
		require.Equal(t, tc.enc, w.Bytes())
		require.Equal(t, tc.val, ReadUvarint(NewReader(tc.enc)))
	}
}

func TestUvarintOverflow(t *testing.T) {
	enc := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x02}
	r := NewReader(enc)
	require.Zero(t, ReadUvarint(r))
	require.ErrorIs(t, r.Err(), ErrRejected)

	long := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x00}
	r = NewReader(long)
	ReadUvarint(r)
	require.ErrorIs(t, r.Err(), ErrRejected)
}

func TestUvarintTruncated(t *testing.T) {
	r := NewReader([]byte{0x80, 0x80})
	require.Zero(t, ReadUvarint(r))
	require.ErrorIs(t, r.Err(), ErrOutOfBounds)
	require.Zero(t, r.Pos())

	r = NewReader([]byte{0x05})
	r.Skip(1)
	require.Zero(t, ReadUvarint(r))
	require.ErrorIs(t, r.Err(), ErrOutOfBounds)
}

func TestUvarintStopsAtTerminator(t *testing.T) {
	r := NewReader([]byte{0xac, 0x02, 0xff, 0xff})
	require.Equal(t, uint64(300), ReadUvarint(r))
	require.Equal(t, 2, r.Pos())
	require.False(t, r.Failed())
}

func TestLenBytes(t *testing.T) {
	w := NewWriter(make([]byte, 8))
	require.True(t, WriteLenBytes(w, []byte("abc")))
	require.True(t, WriteString(w, ""))
	require.False(t, WriteString(w, "toolong"))
	require.Equal(t, 5, w.Pos())

	r := NewReader(w.Bytes())
	require.Equal(t, []byte("abc"), ReadLenBytes(r))
	require.Equal(t, "", ReadString(r))
	require.True(t, r.Empty())
	require.False(t, r.Failed())
}

func TestLenBytesBeyondBuffer(t *testing.T) {
	r := NewReader([]byte{0x05, 'a', 'b'})
	require.Nil(t, ReadLenBytes(r))
	require.ErrorIs(t, r.Err(), ErrOutOfBounds)
	require.Equal(t, 1, r.Pos())
}

func TestReadCount(t *testing.T) {
	r := NewReader([]byte{0x02, 0, 0, 0, 0, 0, 0, 0, 0})
	require.Equal(t, 2, ReadCount(r, 4))
	require.False(t, r.Failed())

	r = NewReader([]byte{0x03, 0, 0, 0, 0, 0, 0, 0, 0})
	require.Zero(t, ReadCount(r, 4))
	require.ErrorIs(t, r.Err(), ErrOutOfBounds)

	huge := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}
	r = NewReader(huge)
	require.Zero(t, ReadCount(r, 0))
	require.ErrorIs(t, r.Err(), ErrOutOfBounds)
}
