package common

import (
	"reflect"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

func TestUvarint(t *testing.T) {
	condition := func(x uint64) bool {
		var buf [MaxVarintLen]byte
		enc := buf[:PutUvarint(buf[:], x)]
		got, n, err := Uvarint(enc)
		return err == nil && got == x && n == len(enc) && n == UvarintLen(x)
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func TestUvarintShortAndOverflow(t *testing.T) {
	_, n, err := Uvarint([]byte{0x80})
	require.NoError(t, err)
	require.Zero(t, n)

	over := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}
	_, _, err = Uvarint(over)
	require.ErrorIs(t, err, ErrVarintOverflow)
}

func TestFixedSize(t *testing.T) {
	require.Equal(t, 1, FixedSize(reflect.Bool))
	require.Equal(t, 2, FixedSize(reflect.Int16))
	require.Equal(t, 4, FixedSize(reflect.Float32))
	require.Equal(t, 8, FixedSize(reflect.Uint64))
	require.Equal(t, -1, FixedSize(reflect.String))
	require.True(t, IsFixedKind(reflect.Float64))
	require.False(t, IsFixedKind(reflect.Slice))
}
