// Package structcodec encodes Go structs over a binrw cursor, one exported
// field at a time in declaration order.
//
// Fixed-width fields (bool, sized integers, floats) are written as-is in the
// cursor's byte order. Strings and slices carry a uvarint length prefix;
// arrays do not. Nested structs are inlined. A field whose pointer type
// implements binrw.Encodable and binrw.Decodable is handed to those methods.
// Fields tagged `binrw:"-"` are skipped. Other kinds (int, uint, maps,
// pointers, interfaces) are rejected with ErrUnsupported.
package structcodec

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/rawbytedev/binrw"
	"github.com/rawbytedev/binrw/internal/common"
)

var (
	ErrNotStruct    = errors.New("expected struct")
	ErrNotStructPtr = errors.New("expected pointer to struct")
	ErrUnsupported  = errors.New("unsupported type")
)

const maxMarshalSize = 1 << 30

type Options struct {
	// ZeroCopy makes decoded strings and byte slices alias the input, which
	// must then outlive the value and stay unmodified.
	ZeroCopy bool
}

// Codec caches one plan per struct type. It is safe for concurrent use.
type Codec struct {
	Opts  Options
	mu    sync.RWMutex
	plans map[reflect.Type]*node
}

func New(opts Options) *Codec {
	return &Codec{Opts: opts, plans: make(map[reflect.Type]*node)}
}

var std = New(Options{})

// Marshal encodes v with a shared copying codec.
func Marshal(v any) ([]byte, error) { return std.Marshal(v) }

// Unmarshal decodes data into out with a shared copying codec.
func Unmarshal(data []byte, out any) error { return std.Unmarshal(data, out) }

type op uint8

const (
	opFixed op = iota
	opString
	opSlice
	opArray
	opStruct
	opCustom
)

type node struct {
	op     op
	kind   reflect.Kind // opFixed
	min    int          // smallest encoding, used to bound decoded counts
	elem   *node        // opSlice, opArray
	n      int          // opArray length
	fields []field      // opStruct
}

type field struct {
	idx  int
	name string
	node *node
}

var (
	encodableType = reflect.TypeOf((*binrw.Encodable)(nil)).Elem()
	decodableType = reflect.TypeOf((*binrw.Decodable)(nil)).Elem()
)

func (c *Codec) plan(t reflect.Type) (*node, error) {
	c.mu.RLock()
	n, ok := c.plans[t]
	c.mu.RUnlock()
	if ok {
		return n, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.plans[t]; ok {
		return n, nil
	}
	pending := make(map[reflect.Type]*node)
	n, err := c.compile(t, pending)
	if err != nil {
		return nil, err
	}
	for pt, pn := range pending {
		c.plans[pt] = pn
	}
	c.plans[t] = n
	return n, nil
}

// compile builds the plan for t. Struct nodes are registered in pending
// before their fields so recursive types resolve to themselves.
func (c *Codec) compile(t reflect.Type, pending map[reflect.Type]*node) (*node, error) {
	if n, ok := c.plans[t]; ok {
		return n, nil
	}
	if n, ok := pending[t]; ok {
		return n, nil
	}
	pt := reflect.PointerTo(t)
	if pt.Implements(encodableType) && pt.Implements(decodableType) {
		return &node{op: opCustom}, nil
	}

	k := t.Kind()
	switch {
	case common.IsFixedKind(k):
		size := common.FixedSize(k)
		return &node{op: opFixed, kind: k, min: size}, nil
	case k == reflect.String:
		return &node{op: opString, min: 1}, nil
	case k == reflect.Slice || k == reflect.Array:
		elem, err := c.compile(t.Elem(), pending)
		if err != nil {
			return nil, err
		}
		if k == reflect.Slice {
			return &node{op: opSlice, elem: elem, min: 1}, nil
		}
		return &node{op: opArray, elem: elem, n: t.Len(), min: t.Len() * elem.min}, nil
	case k == reflect.Struct:
		n := &node{op: opStruct}
		pending[t] = n
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() || sf.Tag.Get("binrw") == "-" {
				continue
			}
			fn, err := c.compile(sf.Type, pending)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", t, sf.Name, err)
			}
			n.fields = append(n.fields, field{idx: i, name: sf.Name, node: fn})
			n.min += fn.min
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, t)
}

// Encode writes the struct v, or the struct v points to, at w's position.
func (c *Codec) Encode(w *binrw.Writer, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return ErrNotStruct
	}
	if !rv.CanAddr() {
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		rv = p.Elem()
	}
	n, err := c.plan(rv.Type())
	if err != nil {
		return err
	}
	c.encode(w, n, rv)
	if w.Failed() {
		return fmt.Errorf("encode %s at offset %d: %w", rv.Type(), w.Pos(), w.Err())
	}
	return nil
}

// Marshal encodes v into a new buffer, growing it until v fits.
func (c *Codec) Marshal(v any) ([]byte, error) {
	for size := 64; ; size *= 2 {
		w := binrw.NewWriter(make([]byte, size))
		err := c.Encode(w, v)
		if err == nil {
			return w.Bytes(), nil
		}
		if !errors.Is(err, binrw.ErrOutOfBounds) || size >= maxMarshalSize {
			return nil, err
		}
	}
}

// Decode reads into the struct out points to from r's position. On failure
// out holds the fields decoded so far.
func (c *Codec) Decode(r *binrw.Reader, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStructPtr
	}
	rv = rv.Elem()
	n, err := c.plan(rv.Type())
	if err != nil {
		return err
	}
	c.decode(r, n, rv)
	if r.Failed() {
		return fmt.Errorf("decode %s at offset %d: %w", rv.Type(), r.Pos(), r.Err())
	}
	return nil
}

// Unmarshal decodes data into out. Trailing bytes are not an error.
func (c *Codec) Unmarshal(data []byte, out any) error {
	return c.Decode(binrw.NewReader(data), out)
}

func (c *Codec) encode(w *binrw.Writer, n *node, v reflect.Value) {
	switch n.op {
	case opFixed:
		writeFixed(w, n.kind, v.Addr().UnsafePointer(), 1)
	case opString:
		binrw.WriteString(w, v.String())
	case opSlice:
		l := v.Len()
		if binrw.WriteUvarint(w, uint64(l)) {
			c.encodeElems(w, n.elem, v, l)
		}
	case opArray:
		c.encodeElems(w, n.elem, v, n.n)
	case opStruct:
		for _, f := range n.fields {
			if w.Failed() {
				return
			}
			c.encode(w, f.node, v.Field(f.idx))
		}
	case opCustom:
		binrw.Encode(w, v.Addr().Interface().(binrw.Encodable))
	}
}

func (c *Codec) encodeElems(w *binrw.Writer, elem *node, v reflect.Value, l int) {
	if l == 0 {
		return
	}
	if elem.op == opFixed {
		writeFixed(w, elem.kind, v.Index(0).Addr().UnsafePointer(), l)
		return
	}
	for i := 0; i < l && !w.Failed(); i++ {
		c.encode(w, elem, v.Index(i))
	}
}

func (c *Codec) decode(r *binrw.Reader, n *node, v reflect.Value) {
	switch n.op {
	case opFixed:
		readFixed(r, n.kind, v.Addr().UnsafePointer(), 1)
	case opString:
		b := binrw.ReadLenBytes(r)
		switch {
		case r.Failed():
		case c.Opts.ZeroCopy && len(b) > 0:
			v.SetString(unsafe.String(&b[0], len(b)))
		default:
			v.SetString(string(b))
		}
	case opSlice:
		if c.Opts.ZeroCopy && n.elem.op == opFixed && n.elem.kind == reflect.Uint8 {
			if b := binrw.ReadLenBytes(r); !r.Failed() {
				v.SetBytes(b)
			}
			return
		}
		l := binrw.ReadCount(r, n.elem.min)
		if r.Failed() {
			return
		}
		if l == 0 {
			v.SetZero()
			return
		}
		s := reflect.MakeSlice(v.Type(), l, l)
		c.decodeElems(r, n.elem, s, l)
		v.Set(s)
	case opArray:
		c.decodeElems(r, n.elem, v, n.n)
	case opStruct:
		for _, f := range n.fields {
			if r.Failed() {
				return
			}
			c.decode(r, f.node, v.Field(f.idx))
		}
	case opCustom:
		binrw.Decode(r, v.Addr().Interface().(binrw.Decodable))
	}
}

func (c *Codec) decodeElems(r *binrw.Reader, elem *node, v reflect.Value, l int) {
	if l == 0 {
		return
	}
	if elem.op == opFixed {
		readFixed(r, elem.kind, v.Index(0).Addr().UnsafePointer(), l)
		return
	}
	for i := 0; i < l && !r.Failed(); i++ {
		c.decode(r, elem, v.Index(i))
	}
}
