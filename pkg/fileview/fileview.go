// Package fileview exposes the contents of a file as a read-only byte slice
// suitable for binrw.Reader.
package fileview

import (
	"errors"
	"fmt"
	"os"
)

var ErrClosed = errors.New("fileview: view closed")

// View holds a read-only mapping of a file. Bytes stays valid until Close;
// every reader built over it must be done before then.
type View struct {
	data   []byte
	mapped bool
	closed bool
}

// Open maps the file at path. Empty files produce an empty view.
func Open(path string) (*View, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if st.Size() == 0 {
		return &View{}, nil
	}
	if int64(int(st.Size())) != st.Size() {
		return nil, fmt.Errorf("%s is too large to map", path)
	}
	data, mapped, err := mapFile(f, int(st.Size()))
	if err != nil {
		return nil, fmt.Errorf("failed to map %s: %w", path, err)
	}
	return &View{data: data, mapped: mapped}, nil
}

// Bytes returns the file contents. The slice must not be modified.
func (v *View) Bytes() []byte {
	if v.closed {
		return nil
	}
	return v.data
}

func (v *View) Len() int { return len(v.Bytes()) }

// Close releases the mapping. Calling Close twice returns ErrClosed.
func (v *View) Close() error {
	if v.closed {
		return ErrClosed
	}
	v.closed = true
	data := v.data
	v.data = nil
	if v.mapped {
		return unmap(data)
	}
	return nil
}
