package binrw

import (
	"bytes"
	"encoding/binary"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

func TestReadTwoHalfWords(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04})

	var a, b uint16
	require.True(t, Read(r, &a))
	require.True(t, Read(r, &b))
	require.Equal(t, uint16(0x0201), a)
	require.Equal(t, uint16(0x0403), b)
	require.True(t, r.Empty())
	require.False(t, r.Failed())

	var c uint8
	require.False(t, Read(r, &c))
	require.True(t, r.Failed())
	require.ErrorIs(t, r.Err(), ErrOutOfBounds)
	require.Equal(t, 4, r.Pos())
}

func TestReadBigEndian(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}).WithOrder(binary.BigEndian)
	require.Equal(t, uint16(0x0102), ReadValue[uint16](r))
	require.Equal(t, uint32(0x03040506), ReadValue[uint32](r))
	require.False(t, r.Failed())
	require.Equal(t, binary.BigEndian, r.Order())
}

func TestReadValueFailureIsZero(t *testing.T) {
	r := NewReader([]byte{0xff, 0xff})
	v := ReadValue[uint64](r)
	require.Zero(t, v)
	require.True(t, r.Failed())
	require.Equal(t, 0, r.Pos())

	got := uint32(77)
	require.False(t, Read(r, &got))
	require.Zero(t, got)
}

func TestPeekDoesNotAdvance(t *testing.T) {
	r := NewReader([]byte{0x2a, 0x00, 0x07})

	var v uint16
	require.True(t, Peek(r, &v))
	require.Equal(t, uint16(42), v)
	require.Equal(t, 0, r.Pos())
	require.Equal(t, uint16(42), PeekValue[uint16](r))
	require.Equal(t, uint16(42), ReadValue[uint16](r))
	require.Equal(t, 2, r.Pos())

	require.Zero(t, PeekValue[uint32](r))
	require.True(t, r.Failed())
	require.Equal(t, 2, r.Pos())
}

func TestReadBoolNormalizes(t *testing.T) {
	type flag bool
	r := NewReader([]byte{0x00, 0x01, 0x07, 0xff, 0x02})
	require.False(t, ReadValue[bool](r))
	require.True(t, ReadValue[bool](r))
	require.True(t, ReadValue[flag](r) == flag(true))

	bs := make([]bool, 2)
	require.True(t, ReadSlice(r, bs))
	require.Equal(t, []bool{true, true}, bs)
}

func TestReadNamedTypes(t *testing.T) {
	type opcode uint16
	w := NewWriter(make([]byte, 10))
	Write(w, opcode(0xbeef))
	Write(w, float64(-2.5))
	require.False(t, w.Failed())

	r := NewReader(w.Bytes())
	require.Equal(t, opcode(0xbeef), ReadValue[opcode](r))
	require.Equal(t, -2.5, ReadValue[float64](r))
	require.True(t, r.Empty())
}

func TestReadSlice(t *testing.T) {
	buf := []byte{1, 0, 2, 0, 3, 0, 9}
	r := NewReader(buf)

	dst := make([]int16, 3)
	require.True(t, ReadSlice(r, dst))
	require.Equal(t, []int16{1, 2, 3}, dst)
	require.Equal(t, 6, r.Pos())

	more := []int16{5, 5}
	require.False(t, ReadSlice(r, more))
	require.Equal(t, []int16{0, 0}, more)
	require.Equal(t, 6, r.Pos())
}

func TestPeekSlice(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	dst := make([]byte, 3)
	require.True(t, PeekSlice(r, dst))
	require.Equal(t, []byte{1, 2, 3}, dst)
	require.Equal(t, 0, r.Pos())

	require.True(t, ReadSlice(r, dst[:0]))
	require.Equal(t, 0, r.Pos())
}

func TestView(t *testing.T) {
	buf := []byte("abcdef")
	r := NewReader(buf)

	peeked := r.PeekView(2)
	require.Equal(t, []byte("ab"), peeked)
	require.Equal(t, 0, r.Pos())

	v := r.View(4)
	require.Equal(t, []byte("abcd"), v)
	require.Equal(t, 4, r.Pos())
	require.Equal(t, 4, cap(v))

	// zero-copy: the view aliases the buffer
	buf[0] = 'z'
	require.Equal(t, byte('z'), v[0])

	require.Nil(t, r.View(3))
	require.True(t, r.Failed())
	require.Equal(t, 4, r.Pos())
	require.Nil(t, r.View(0))
}

func TestViewNegativeCount(t *testing.T) {
	r := NewReader([]byte{1, 2})
	require.Nil(t, r.View(-1))
	require.True(t, r.Failed())
	require.Equal(t, 0, r.Pos())
}

func TestViewProperty(t *testing.T) {
	condition := func(buf []byte, k uint16) bool {
		n := int(k) % (len(buf) + 1)
		r := NewReader(buf)
		got := r.View(n)
		if r.Failed() || r.Pos() != n {
			return false
		}
		if !bytes.Equal(buf[:n], got) {
			return false
		}

		over := NewReader(buf)
		return over.View(len(buf)+1) == nil && over.Failed() && over.Pos() == 0
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func TestReaderDoesNotCopyBuffer(t *testing.T) {
	buf := []byte{1, 2, 3}
	r := NewReader(buf)
	buf[1] = 9
	r.Skip(1)
	require.Equal(t, byte(9), ReadValue[byte](r))
	require.Equal(t, 3, r.Len())
}

func FuzzReader(f *testing.F) {
	f.Add([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9}, 3)
	f.Fuzz(func(t *testing.T, data []byte, n int) {
		r := NewReader(data)
		for !r.Failed() {
			ReadValue[uint32](r)
			r.View(n % 7)
			PeekValue[float64](r)
			r.Skip(n % 3)
		}
		require.GreaterOrEqual(t, r.Pos(), 0)
		require.LessOrEqual(t, r.Pos(), len(data))
	})
}
