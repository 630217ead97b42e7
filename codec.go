package binrw

import "fmt"

// Decodable is implemented by types that read themselves field by field from
// a Reader. Implementations may skip error checks between fields: a failed
// primitive leaves the reader failed and turns later reads into no-ops.
// They call NotifyError when a field decodes but is not acceptable.
type Decodable interface {
	DecodeBinary(r *Reader)
}

// Encodable is implemented by types that write themselves field by field.
type Encodable interface {
	EncodeBinary(w *Writer)
}

// Decode runs v's DecodeBinary unless r has already failed, and reports
// whether r is still healthy afterwards.
func Decode(r *Reader, v Decodable) bool {
	if r.Failed() {
		return false
	}
	v.DecodeBinary(r)
	return !r.Failed()
}

// Encode runs v's EncodeBinary unless w has already failed.
func Encode(w *Writer, v Encodable) bool {
	if w.Failed() {
		return false
	}
	v.EncodeBinary(w)
	return !w.Failed()
}

// Unmarshal decodes v from data. Trailing bytes are not an error.
func Unmarshal(data []byte, v Decodable) error {
	r := NewReader(data)
	if !Decode(r, v) {
		return fmt.Errorf("unmarshal at offset %d: %w", r.Pos(), r.Err())
	}
	return nil
}

// MarshalTo encodes v into buf and returns the number of bytes written.
func MarshalTo(buf []byte, v Encodable) (int, error) {
	w := NewWriter(buf)
	if !Encode(w, v) {
		return 0, fmt.Errorf("marshal at offset %d: %w", w.Pos(), w.Err())
	}
	return w.Pos(), nil
}
