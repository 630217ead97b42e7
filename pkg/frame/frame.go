// Package frame wraps payloads in checksummed, optionally compressed frames
// encoded with binrw cursors.
package frame

import (
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/rawbytedev/binrw"
	"github.com/rawbytedev/binrw/pkg/enumset"
	"github.com/segmentio/ksuid"
)

var (
	ErrBadMagic  = errors.New("frame: bad magic")
	ErrVersion   = errors.New("frame: unsupported version")
	ErrFlags     = errors.New("frame: unknown flags")
	ErrLength    = errors.New("frame: invalid length")
	ErrChecksum  = errors.New("frame: checksum mismatch")
	ErrTruncated = errors.New("frame: truncated")
)

// Frame is a decoded frame. ID comes from the header; Payload is the
// decompressed body.
type Frame struct {
	ID      ksuid.KSUID
	Flags   enumset.Set[Flag]
	Payload []byte
}

// New returns a frame with a fresh id.
func New(payload []byte, flags ...Flag) Frame {
	return Frame{ID: ksuid.New(), Flags: enumset.Of(flags...), Payload: payload}
}

// MaxPayload is the default cap on a decompressed payload.
const MaxPayload = 64 << 20

type options struct {
	maxPayload uint64
}

// Option configures a Codec.
type Option func(*options)

// WithMaxPayload caps the size of a decompressed payload. Frames that
// would inflate past n fail to decode.
func WithMaxPayload(n uint64) Option {
	return func(o *options) { o.maxPayload = n }
}

// Codec encodes and decodes frames. It keeps zstd state between calls and
// is safe for concurrent use.
type Codec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewCodec returns a Codec. Decompression is capped at MaxPayload unless
// WithMaxPayload says otherwise.
func NewCodec(opts ...Option) (*Codec, error) {
	o := options{maxPayload: MaxPayload}
	for _, opt := range opts {
		opt(&o)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderMaxMemory(o.maxPayload),
		zstd.WithDecoderConcurrency(0))
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &Codec{enc: enc, dec: dec}, nil
}

// Close releases the zstd encoder and decoder.
func (c *Codec) Close() error {
	c.dec.Close()
	return c.enc.Close()
}

// Encode serializes f. Frames with FlagZstd carry the compressed payload.
func (c *Codec) Encode(f Frame) ([]byte, error) {
	if !knownFlags.HasAll(f.Flags) {
		return nil, ErrFlags
	}
	body := f.Payload
	if f.Flags.Test(FlagZstd) {
		body = c.enc.EncodeAll(f.Payload, nil)
	}
	h := Header{Magic: Magic, Version: VersionV1, Flags: f.Flags, ID: f.ID}
	total := HeaderSize + len(body) + h.checksumSize()
	if uint64(total) > uint64(^uint32(0)) {
		return nil, ErrLength
	}
	h.Length = uint32(total)

	buf := make([]byte, total)
	w := binrw.NewWriter(buf)
	binrw.Encode(w, h)
	w.WriteBytes(body)
	sum := checksum(h.Flags, buf[len(Magic):w.Pos()])
	if h.checksumSize() == 8 {
		binrw.Write(w, sum)
	} else {
		binrw.Write(w, uint32(sum))
	}
	if w.Failed() || !w.Empty() {
		return nil, fmt.Errorf("frame: encode: %w", w.Err())
	}
	return buf, nil
}

// Decode parses a single frame occupying all of data. Uncompressed payloads
// alias data.
func (c *Codec) Decode(data []byte) (Frame, error) {
	r := binrw.NewReader(data)
	f, err := c.DecodeFrom(r)
	if err != nil {
		return Frame{}, err
	}
	if !r.Empty() {
		return Frame{}, fmt.Errorf("%w: %d trailing bytes", ErrLength, r.Left())
	}
	return f, nil
}

// DecodeAll parses back-to-back frames until data is exhausted.
func (c *Codec) DecodeAll(data []byte) ([]Frame, error) {
	var frames []Frame
	r := binrw.NewReader(data)
	for !r.Empty() {
		f, err := c.DecodeFrom(r)
		if err != nil {
			return frames, fmt.Errorf("frame %d at offset %d: %w", len(frames), r.Pos(), err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// DecodeFrom reads the next frame from r. On error r is left failed.
func (c *Codec) DecodeFrom(r *binrw.Reader) (Frame, error) {
	raw := r.PeekView(HeaderSize)
	var h Header
	if !binrw.Decode(r, &h) {
		if errors.Is(r.Err(), binrw.ErrRejected) {
			return Frame{}, h.Validate()
		}
		return Frame{}, ErrTruncated
	}
	bodyLen := int(h.Length) - HeaderSize - h.checksumSize()
	if bodyLen < 0 {
		r.NotifyError()
		return Frame{}, ErrLength
	}
	body := r.View(bodyLen)
	var sum uint64
	if h.checksumSize() == 8 {
		binrw.Read(r, &sum)
	} else {
		sum = uint64(binrw.ReadValue[uint32](r))
	}
	if r.Failed() {
		return Frame{}, ErrTruncated
	}
	if checksum(h.Flags, raw[len(Magic):], body) != sum {
		r.NotifyError()
		return Frame{}, ErrChecksum
	}

	f := Frame{ID: h.ID, Flags: h.Flags, Payload: body}
	if h.Flags.Test(FlagZstd) {
		payload, err := c.dec.DecodeAll(body, nil)
		if err != nil {
			r.NotifyError()
			return Frame{}, fmt.Errorf("frame: decompress: %w", err)
		}
		f.Payload = payload
	}
	return f, nil
}

func checksum(flags enumset.Set[Flag], parts ...[]byte) uint64 {
	if flags.Test(FlagXXHash) {
		d := xxhash.New()
		for _, p := range parts {
			d.Write(p)
		}
		return d.Sum64()
	}
	var crc uint32
	for _, p := range parts {
		crc = crc32.Update(crc, crc32.IEEETable, p)
	}
	return uint64(crc)
}
