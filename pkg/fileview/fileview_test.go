package fileview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rawbytedev/binrw"
	"github.com/stretchr/testify/require"
)

func TestOpenAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte{0x34, 0x12, 'o', 'k'}, 0o644))

	v, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 4, v.Len())

	r := binrw.NewReader(v.Bytes())
	require.Equal(t, uint16(0x1234), binrw.ReadValue[uint16](r))
	require.Equal(t, []byte("ok"), r.View(2))
	require.True(t, r.Empty())

	require.NoError(t, v.Close())
	require.Nil(t, v.Bytes())
	require.ErrorIs(t, v.Close(), ErrClosed)
}

func TestOpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	v, err := Open(path)
	require.NoError(t, err)
	require.Zero(t, v.Len())
	require.True(t, binrw.NewReader(v.Bytes()).Empty())
	require.NoError(t, v.Close())
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Open(dir)
	require.Error(t, err)
}
