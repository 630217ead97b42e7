// Package enumset wraps an integer flag enum in a small set algebra.
package enumset

import "github.com/rawbytedev/binrw"

// Flag is any unsigned integer type whose values are bit flags.
type Flag interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Set is a combination of flags of type E. The zero value is the empty set.
type Set[E Flag] struct {
	v E
}

// Of returns the set holding every flag in flags.
func Of[E Flag](flags ...E) Set[E] {
	var s Set[E]
	for _, f := range flags {
		s.v |= f
	}
	return s
}

// Value returns the underlying bits.
func (s Set[E]) Value() E { return s.v }

func (s Set[E]) IsEmpty() bool { return s.v == 0 }

// Test reports whether every bit of f is set.
func (s Set[E]) Test(f E) bool { return s.v&f == f }

// HasAny reports whether s and o share at least one bit.
func (s Set[E]) HasAny(o Set[E]) bool { return s.v&o.v != 0 }

// HasAll reports whether o is a subset of s.
func (s Set[E]) HasAll(o Set[E]) bool { return s.v&o.v == o.v }

func (s Set[E]) Union(o Set[E]) Set[E]     { return Set[E]{s.v | o.v} }
func (s Set[E]) Intersect(o Set[E]) Set[E] { return Set[E]{s.v & o.v} }
func (s Set[E]) Xor(o Set[E]) Set[E]       { return Set[E]{s.v ^ o.v} }
func (s Set[E]) Complement() Set[E]        { return Set[E]{^s.v} }

// Add sets the bits of f.
func (s *Set[E]) Add(f E) { s.v |= f }

// Remove clears the bits of f.
func (s *Set[E]) Remove(f E) { s.v &^= f }

// Toggle flips the bits of f.
func (s *Set[E]) Toggle(f E) { s.v ^= f }

// EncodeBinary writes the raw bits with the writer's byte order.
func (s Set[E]) EncodeBinary(w *binrw.Writer) {
	binrw.Write(w, s.v)
}

// DecodeBinary reads the raw bits. Use Mask to reject unknown bits.
func (s *Set[E]) DecodeBinary(r *binrw.Reader) {
	binrw.Read(r, &s.v)
}

// Mask restricts decoding to a known set of flags: bits outside known make
// DecodeBinary reject the value.
type Mask[E Flag] struct {
	Set   *Set[E]
	Known Set[E]
}

func (m Mask[E]) DecodeBinary(r *binrw.Reader) {
	m.Set.DecodeBinary(r)
	if r.Failed() {
		return
	}
	if m.Set.v&^m.Known.v != 0 {
		r.NotifyError()
	}
}
