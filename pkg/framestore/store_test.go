package framestore

import (
	"testing"

	"github.com/rawbytedev/binrw/pkg/frame"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, s.Close()) })
	return s
}

func TestPutGet(t *testing.T) {
	s := openStore(t)
	in := frame.New([]byte("stored payload"), frame.FlagZstd)

	id, err := s.Put(in)
	require.NoError(t, err)
	require.Equal(t, in.ID, id)

	out, err := s.Get(id)
	require.NoError(t, err)
	require.Equal(t, in.Payload, out.Payload)
	require.True(t, out.Flags.Test(frame.FlagZstd))
}

func TestPutAssignsID(t *testing.T) {
	s := openStore(t)
	id, err := s.Put(frame.Frame{Payload: []byte("x")})
	require.NoError(t, err)
	require.NotEqual(t, ksuid.Nil, id)

	out, err := s.Get(id)
	require.NoError(t, err)
	require.Equal(t, id, out.ID)
}

func TestGetMissing(t *testing.T) {
	s := openStore(t)
	_, err := s.Get(ksuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListAndDelete(t *testing.T) {
	s := openStore(t)
	var ids []ksuid.KSUID
	for _, p := range []string{"a", "b", "c"} {
		id, err := s.Put(frame.New([]byte(p)))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	got, err := s.List()
	require.NoError(t, err)
	require.ElementsMatch(t, ids, got)

	require.NoError(t, s.Delete(ids[1]))
	got, err = s.List()
	require.NoError(t, err)
	require.ElementsMatch(t, []ksuid.KSUID{ids[0], ids[2]}, got)

	_, err = s.Get(ids[1])
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ids[1]))
	require.NoError(t, s.Delete(ksuid.New()))
}
