// Package framestore keeps encoded frames in a pebble database keyed by
// frame id.
package framestore

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/rawbytedev/binrw/pkg/frame"
	"github.com/segmentio/ksuid"
)

var ErrNotFound = errors.New("framestore: frame not found")

// Store is a pebble-backed frame store. Frames are verified on Get.
type Store struct {
	db    *pebble.DB
	codec *frame.Codec
}

// Open opens or creates the store at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	codec, err := frame.NewCodec()
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, codec: codec}, nil
}

// Put stores f and returns its id. A frame without an id gets a new one.
func (s *Store) Put(f frame.Frame) (ksuid.KSUID, error) {
	if f.ID == ksuid.Nil {
		f.ID = ksuid.New()
	}
	enc, err := s.codec.Encode(f)
	if err != nil {
		return ksuid.Nil, err
	}
	if err := s.db.Set(f.ID.Bytes(), enc, pebble.Sync); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to store frame %s: %w", f.ID, err)
	}
	return f.ID, nil
}

// Get loads and verifies the frame stored under id.
func (s *Store) Get(id ksuid.KSUID) (frame.Frame, error) {
	val, closer, err := s.db.Get(id.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return frame.Frame{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return frame.Frame{}, err
	}
	defer closer.Close()

	// val is only valid until closer.Close.
	f, err := s.codec.Decode(append([]byte(nil), val...))
	if err != nil {
		return frame.Frame{}, fmt.Errorf("frame %s: %w", id, err)
	}
	if f.ID != id {
		return frame.Frame{}, fmt.Errorf("frame %s: stored under %s", f.ID, id)
	}
	return f, nil
}

// Delete removes the frame stored under id. Deleting a missing id is not
// an error.
func (s *Store) Delete(id ksuid.KSUID) error {
	return s.db.Delete(id.Bytes(), pebble.Sync)
}

// List returns every stored id in ksuid order, which is creation order.
func (s *Store) List() ([]ksuid.KSUID, error) {
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return nil, err
	}
	var ids []ksuid.KSUID
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key())
		if err != nil {
			iter.Close()
			return nil, fmt.Errorf("bad key %x: %w", iter.Key(), err)
		}
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Close closes the codec and the database.
func (s *Store) Close() error {
	return errors.Join(s.codec.Close(), s.db.Close())
}
