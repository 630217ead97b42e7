package binrw

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type shape uint8

const (
	shapeCircle shape = iota
	shapeRect
)

type point struct {
	X, Y int32
}

func (p *point) DecodeBinary(r *Reader) {
	Read(r, &p.X)
	Read(r, &p.Y)
}

func (p point) EncodeBinary(w *Writer) {
	Write(w, p.X)
	Write(w, p.Y)
}

type figure struct {
	Kind   shape
	Origin point
	Dims   []uint16
	Label  string
}

func (f *figure) DecodeBinary(r *Reader) {
	Read(r, &f.Kind)
	if f.Kind > shapeRect {
		r.NotifyError()
		return
	}
	Decode(r, &f.Origin)
	n := ReadValue[uint8](r)
	f.Dims = make([]uint16, n)
	ReadSlice(r, f.Dims)
	f.Label = ReadString(r)
}

func (f figure) EncodeBinary(w *Writer) {
	Write(w, f.Kind)
	Encode(w, f.Origin)
	Write(w, uint8(len(f.Dims)))
	WriteSlice(w, f.Dims)
	WriteString(w, f.Label)
}

func TestCompositeRoundTrip(t *testing.T) {
	in := figure{Kind: shapeRect, Origin: point{X: -4, Y: 9}, Dims: []uint16{3, 5}, Label: "box"}
	buf := make([]byte, 64)
	n, err := MarshalTo(buf, in)
	require.NoError(t, err)
	require.Equal(t, 1+8+1+4+1+3, n)

	var out figure
	require.NoError(t, Unmarshal(buf[:n], &out))
	require.Equal(t, in, out)
}

func TestCompositeRejectsDiscriminant(t *testing.T) {
	buf := []byte{7, 0, 0, 0, 0, 0, 0, 0, 0}
	var out figure
	err := Unmarshal(buf, &out)
	require.ErrorIs(t, err, ErrRejected)
}

func TestCompositeTruncated(t *testing.T) {
	in := figure{Kind: shapeCircle, Origin: point{X: 1, Y: 2}, Dims: []uint16{10}, Label: "round"}
	buf := make([]byte, 64)
	n, err := MarshalTo(buf, in)
	require.NoError(t, err)

	for cut := 0; cut < n; cut++ {
		var out figure
		err := Unmarshal(buf[:cut], &out)
		require.ErrorIs(t, err, ErrOutOfBounds, "cut at %d", cut)
	}
}

func TestMarshalToShortBuffer(t *testing.T) {
	_, err := MarshalTo(make([]byte, 5), point{X: 1, Y: 2})
	require.ErrorIs(t, err, ErrOutOfBounds)
}

type counter struct{ calls int }

func (c *counter) DecodeBinary(r *Reader) { c.calls++ }

func TestDecodeSkipsFailedReader(t *testing.T) {
	r := NewReader(nil)
	r.NotifyError()
	c := &counter{}
	require.False(t, Decode(r, c))
	require.Zero(t, c.calls)
}
