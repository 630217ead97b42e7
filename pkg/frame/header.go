package frame

import (
	"github.com/rawbytedev/binrw"
	"github.com/rawbytedev/binrw/pkg/enumset"
	"github.com/segmentio/ksuid"
)

// Frame layout (little-endian):
//
//	[magic "BF"(2)][version(1)][flags(1)][length(4)][id(20)][payload][checksum]
//
// length counts every byte of the frame including the checksum. The checksum
// is CRC32-IEEE (4 bytes) or xxhash64 (8 bytes, FlagXXHash) over everything
// after the magic up to the end of the payload.
const (
	VersionV1  = 1
	HeaderSize = 2 + 1 + 1 + 4 + len(ksuid.KSUID{})
)

// Magic opens every frame.
var Magic = [2]byte{'B', 'F'}

// Flag is a frame option bit.
type Flag uint8

const (
	FlagZstd   Flag = 1 << iota // payload is zstd compressed
	FlagXXHash                  // 8-byte xxhash64 trailer instead of CRC32
)

var knownFlags = enumset.Of(FlagZstd, FlagXXHash)

// Header is the fixed-size frame prefix.
type Header struct {
	Magic   [2]byte
	Version uint8
	Flags   enumset.Set[Flag]
	Length  uint32
	ID      ksuid.KSUID
}

// Validate checks magic, version and flags.
func (h Header) Validate() error {
	switch {
	case h.Magic != Magic:
		return ErrBadMagic
	case h.Version != VersionV1:
		return ErrVersion
	case !knownFlags.HasAll(h.Flags):
		return ErrFlags
	}
	return nil
}

func (h Header) checksumSize() int {
	if h.Flags.Test(FlagXXHash) {
		return 8
	}
	return 4
}

// EncodeBinary writes h in wire order.
func (h Header) EncodeBinary(w *binrw.Writer) {
	w.WriteBytes(h.Magic[:])
	binrw.Write(w, h.Version)
	binrw.Encode(w, h.Flags)
	binrw.Write(w, h.Length)
	w.WriteBytes(h.ID[:])
}

// DecodeBinary reads a header and rejects it when Validate fails.
func (h *Header) DecodeBinary(r *binrw.Reader) {
	r.ReadBytes(h.Magic[:])
	binrw.Read(r, &h.Version)
	binrw.Decode(r, &h.Flags)
	binrw.Read(r, &h.Length)
	r.ReadBytes(h.ID[:])
	if !r.Failed() && h.Validate() != nil {
		r.NotifyError()
	}
}
