// Package layout decodes and encodes flat binary records described by an
// ordered list of named fields. A Layout is compiled once into a Plan, which
// then drives a binrw cursor field by field in declared order.
package layout

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/rawbytedev/binrw/internal/common"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownType = errors.New("unknown field type")
	ErrBadField    = errors.New("invalid field")
	ErrValue       = errors.New("invalid value")
)

// Field describes one field. Type is one of bool, i8, u8, i16, u16, i32,
// u32, i64, u64, f32, f64, bytes, skip, uvarint, string or enum.
type Field struct {
	Name   string   `yaml:"name"`
	Type   string   `yaml:"type"`
	Size   int      `yaml:"size,omitempty"`   // bytes, skip
	Count  int      `yaml:"count,omitempty"`  // fixed arrays of scalars
	Base   string   `yaml:"base,omitempty"`   // enum storage: u8, u16 or u32
	Values []string `yaml:"values,omitempty"` // enum names by ordinal
}

// Layout is a named, ordered field list as read from YAML.
type Layout struct {
	Name   string  `yaml:"name"`
	Order  string  `yaml:"order,omitempty"` // little (default) or big
	Fields []Field `yaml:"fields"`
}

// Parse reads a YAML layout.
func Parse(data []byte) (Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("failed to parse layout: %w", err)
	}
	return l, nil
}

// Load reads a YAML layout file.
func Load(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to read layout file: %w", err)
	}
	return Parse(data)
}

type opKind int

const (
	opFixed opKind = iota
	opBytes
	opSkip
	opUvarint
	opString
	opEnum
)

var scalarKinds = map[string]reflect.Kind{
	"bool": reflect.Bool,
	"i8":   reflect.Int8,
	"u8":   reflect.Uint8,
	"i16":  reflect.Int16,
	"u16":  reflect.Uint16,
	"i32":  reflect.Int32,
	"u32":  reflect.Uint32,
	"i64":  reflect.Int64,
	"u64":  reflect.Uint64,
	"f32":  reflect.Float32,
	"f64":  reflect.Float64,
}

type fieldPlan struct {
	name   string
	op     opKind
	kind   reflect.Kind
	size   int // encoded size of fixed-width fields, -1 when variable
	count  int
	values []string
	index  map[string]uint64
}

// Plan is a compiled Layout. It is immutable and safe for concurrent use.
type Plan struct {
	name      string
	order     binary.ByteOrder
	fields    []fieldPlan
	fixedSize int
	variable  bool
}

// Compile validates l and builds its plan.
func Compile(l Layout) (*Plan, error) {
	p := &Plan{name: l.Name}
	switch l.Order {
	case "", "little":
		p.order = binary.LittleEndian
	case "big":
		p.order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: byte order %q", ErrBadField, l.Order)
	}

	seen := make(map[string]bool, len(l.Fields))
	for i, f := range l.Fields {
		fp, err := compileField(f)
		if err != nil {
			return nil, fmt.Errorf("field %d (%s): %w", i, f.Name, err)
		}
		if fp.op != opSkip {
			if f.Name == "" {
				return nil, fmt.Errorf("field %d: %w: missing name", i, ErrBadField)
			}
			if seen[f.Name] {
				return nil, fmt.Errorf("field %d: %w: duplicate name %q", i, ErrBadField, f.Name)
			}
			seen[f.Name] = true
		}
		if fp.size < 0 {
			p.variable = true
		} else {
			p.fixedSize += fp.size
		}
		p.fields = append(p.fields, fp)
	}
	return p, nil
}

func compileField(f Field) (fieldPlan, error) {
	fp := fieldPlan{name: f.Name}
	if f.Count < 0 {
		return fp, fmt.Errorf("%w: negative count", ErrBadField)
	}
	if k, ok := scalarKinds[f.Type]; ok {
		fp.op, fp.kind, fp.count = opFixed, k, f.Count
		fp.size = common.FixedSize(k) * max(f.Count, 1)
		return fp, nil
	}
	if f.Count != 0 {
		return fp, fmt.Errorf("%w: count only applies to scalar types", ErrBadField)
	}
	switch f.Type {
	case "bytes", "skip":
		if f.Size <= 0 {
			return fp, fmt.Errorf("%w: %s needs a positive size", ErrBadField, f.Type)
		}
		fp.op, fp.size = opBytes, f.Size
		if f.Type == "skip" {
			fp.op = opSkip
		}
	case "uvarint":
		fp.op, fp.size = opUvarint, -1
	case "string":
		fp.op, fp.size = opString, -1
	case "enum":
		base := f.Base
		if base == "" {
			base = "u8"
		}
		k := scalarKinds[base]
		if k != reflect.Uint8 && k != reflect.Uint16 && k != reflect.Uint32 {
			return fp, fmt.Errorf("%w: enum base %q", ErrBadField, f.Base)
		}
		if len(f.Values) == 0 {
			return fp, fmt.Errorf("%w: enum without values", ErrBadField)
		}
		if uint64(len(f.Values)-1) > maxUint(k) {
			return fp, fmt.Errorf("%w: %d enum values do not fit %s", ErrBadField, len(f.Values), base)
		}
		fp.op, fp.kind, fp.size, fp.values = opEnum, k, common.FixedSize(k), f.Values
		fp.index = make(map[string]uint64, len(f.Values))
		for i, v := range f.Values {
			if _, dup := fp.index[v]; dup {
				return fp, fmt.Errorf("%w: duplicate enum value %q", ErrBadField, v)
			}
			fp.index[v] = uint64(i)
		}
	default:
		return fp, fmt.Errorf("%w %q", ErrUnknownType, f.Type)
	}
	return fp, nil
}

func maxUint(k reflect.Kind) uint64 {
	return 1<<(8*common.FixedSize(k)) - 1
}

// Name returns the layout name.
func (p *Plan) Name() string { return p.name }

// Order returns the byte order fixed-size fields use.
func (p *Plan) Order() binary.ByteOrder { return p.order }

// FixedSize returns the encoded size when every field has a fixed width.
func (p *Plan) FixedSize() (int, bool) {
	return p.fixedSize, !p.variable
}

// Fields returns the names of the value-carrying fields in order.
func (p *Plan) Fields() []string {
	names := make([]string, 0, len(p.fields))
	for _, f := range p.fields {
		if f.op != opSkip {
			names = append(names, f.name)
		}
	}
	return names
}
