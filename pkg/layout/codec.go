package layout

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"
	"reflect"

	"github.com/rawbytedev/binrw"
	"github.com/rawbytedev/binrw/internal/common"
)

// NewReader returns a reader over buf using the plan's byte order.
func (p *Plan) NewReader(buf []byte) *binrw.Reader {
	return binrw.NewReader(buf).WithOrder(p.order)
}

// NewWriter returns a writer over buf using the plan's byte order.
func (p *Plan) NewWriter(buf []byte) *binrw.Writer {
	return binrw.NewWriter(buf).WithOrder(p.order)
}

// Decode decodes one record from the front of buf and reports how many bytes
// it consumed.
func (p *Plan) Decode(buf []byte) (Record, int, error) {
	r := p.NewReader(buf)
	rec, err := p.DecodeFrom(r)
	return rec, r.Pos(), err
}

// DecodeFrom decodes one record at r's position using r's byte order. On
// failure it returns the fields decoded so far along with an error naming
// the field that failed.
func (p *Plan) DecodeFrom(r *binrw.Reader) (Record, error) {
	rec := make(Record, 0, len(p.fields))
	for i := range p.fields {
		f := &p.fields[i]
		start := r.Pos()
		v := f.read(r)
		if r.Failed() {
			return rec, p.fieldErr(f, start, r.Err())
		}
		if f.op != opSkip {
			rec = append(rec, Value{Name: f.name, Value: v})
		}
	}
	return rec, nil
}

func (p *Plan) fieldErr(f *fieldPlan, off int, err error) error {
	return fmt.Errorf("layout %q: field %q at offset %d: %w", p.name, f.name, off, err)
}

func (f *fieldPlan) read(r *binrw.Reader) any {
	switch f.op {
	case opFixed:
		if f.count > 0 {
			// bound check before allocating the array
			r.PeekView(f.size)
			if r.Failed() {
				return nil
			}
		}
		return readScalar(r, f.kind, f.count)
	case opBytes:
		return bytes.Clone(r.View(f.size))
	case opSkip:
		r.Skip(f.size)
	case opUvarint:
		return binrw.ReadUvarint(r)
	case opString:
		return binrw.ReadString(r)
	case opEnum:
		ord := readOrdinal(r, f.kind)
		if r.Failed() {
			return nil
		}
		if ord >= uint64(len(f.values)) {
			r.NotifyError()
			return nil
		}
		return f.values[ord]
	}
	return nil
}

func readScalar(r *binrw.Reader, k reflect.Kind, count int) any {
	switch k {
	case reflect.Bool:
		return get[bool](r, count)
	case reflect.Int8:
		return get[int8](r, count)
	case reflect.Uint8:
		return get[uint8](r, count)
	case reflect.Int16:
		return get[int16](r, count)
	case reflect.Uint16:
		return get[uint16](r, count)
	case reflect.Int32:
		return get[int32](r, count)
	case reflect.Uint32:
		return get[uint32](r, count)
	case reflect.Int64:
		return get[int64](r, count)
	case reflect.Uint64:
		return get[uint64](r, count)
	case reflect.Float32:
		return get[float32](r, count)
	case reflect.Float64:
		return get[float64](r, count)
	}
	panic("layout: unexpected kind " + k.String())
}

func get[T binrw.Fixed](r *binrw.Reader, count int) any {
	if count == 0 {
		return binrw.ReadValue[T](r)
	}
	s := make([]T, count)
	binrw.ReadSlice(r, s)
	return s
}

func readOrdinal(r *binrw.Reader, k reflect.Kind) uint64 {
	switch k {
	case reflect.Uint8:
		return uint64(binrw.ReadValue[uint8](r))
	case reflect.Uint16:
		return uint64(binrw.ReadValue[uint16](r))
	default:
		return uint64(binrw.ReadValue[uint32](r))
	}
}

// Size returns the encoded size of vals.
func (p *Plan) Size(vals map[string]any) (int, error) {
	n := p.fixedSize
	if !p.variable {
		return n, nil
	}
	for i := range p.fields {
		f := &p.fields[i]
		switch f.op {
		case opUvarint:
			x, err := f.uvarint(vals)
			if err != nil {
				return 0, err
			}
			n += common.UvarintLen(x)
		case opString:
			s, err := f.str(vals)
			if err != nil {
				return 0, err
			}
			n += common.UvarintLen(uint64(len(s))) + len(s)
		}
	}
	return n, nil
}

// Marshal encodes vals into a new buffer of exactly the needed size.
func (p *Plan) Marshal(vals map[string]any) ([]byte, error) {
	n, err := p.Size(vals)
	if err != nil {
		return nil, err
	}
	w := p.NewWriter(make([]byte, n))
	if err := p.Encode(w, vals); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Encode writes vals field by field at w's position using w's byte order.
// Every named field must be present; skip fields are written as zeros.
// Values are converted to the field type and rejected with ErrValue when
// they do not fit.
func (p *Plan) Encode(w *binrw.Writer, vals map[string]any) error {
	for i := range p.fields {
		f := &p.fields[i]
		start := w.Pos()
		if err := f.write(w, vals); err != nil {
			return p.fieldErr(f, start, err)
		}
		if w.Failed() {
			return p.fieldErr(f, start, w.Err())
		}
	}
	return nil
}

func (f *fieldPlan) lookup(vals map[string]any) (any, error) {
	v, ok := vals[f.name]
	if !ok {
		return nil, fmt.Errorf("%w: missing", ErrValue)
	}
	return v, nil
}

func (f *fieldPlan) uvarint(vals map[string]any) (uint64, error) {
	v, err := f.lookup(vals)
	if err != nil {
		return 0, err
	}
	x, ok := toUint64(reflect.ValueOf(v))
	if !ok {
		return 0, fmt.Errorf("%w: %v is not an unsigned integer", ErrValue, v)
	}
	return x, nil
}

func (f *fieldPlan) str(vals map[string]any) (string, error) {
	v, err := f.lookup(vals)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	}
	return "", fmt.Errorf("%w: %v is not a string", ErrValue, v)
}

func (f *fieldPlan) write(w *binrw.Writer, vals map[string]any) error {
	if f.op == opSkip {
		w.WriteBytes(make([]byte, f.size))
		return nil
	}
	v, err := f.lookup(vals)
	if err != nil {
		return err
	}
	switch f.op {
	case opFixed:
		return writeScalar(w, f.kind, v, f.count)
	case opBytes:
		b, err := f.bytes(v)
		if err != nil {
			return err
		}
		w.WriteBytes(b)
	case opUvarint:
		x, err := f.uvarint(vals)
		if err != nil {
			return err
		}
		binrw.WriteUvarint(w, x)
	case opString:
		s, err := f.str(vals)
		if err != nil {
			return err
		}
		binrw.WriteString(w, s)
	case opEnum:
		ord, err := f.ordinal(v)
		if err != nil {
			return err
		}
		switch f.kind {
		case reflect.Uint8:
			binrw.Write(w, uint8(ord))
		case reflect.Uint16:
			binrw.Write(w, uint16(ord))
		default:
			binrw.Write(w, uint32(ord))
		}
	}
	return nil
}

func (f *fieldPlan) bytes(v any) ([]byte, error) {
	var b []byte
	switch x := v.(type) {
	case []byte:
		b = x
	case string:
		var err error
		if b, err = hex.DecodeString(x); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValue, err)
		}
	default:
		return nil, fmt.Errorf("%w: %T is not bytes", ErrValue, v)
	}
	if len(b) != f.size {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrValue, len(b), f.size)
	}
	return b, nil
}

func (f *fieldPlan) ordinal(v any) (uint64, error) {
	if s, ok := v.(string); ok {
		ord, ok := f.index[s]
		if !ok {
			return 0, fmt.Errorf("%w: unknown enum value %q", ErrValue, s)
		}
		return ord, nil
	}
	ord, ok := toUint64(reflect.ValueOf(v))
	if !ok || ord >= uint64(len(f.values)) {
		return 0, fmt.Errorf("%w: enum ordinal %v out of range", ErrValue, v)
	}
	return ord, nil
}

func writeScalar(w *binrw.Writer, k reflect.Kind, v any, count int) error {
	switch k {
	case reflect.Bool:
		return put[bool](w, v, count)
	case reflect.Int8:
		return put[int8](w, v, count)
	case reflect.Uint8:
		return put[uint8](w, v, count)
	case reflect.Int16:
		return put[int16](w, v, count)
	case reflect.Uint16:
		return put[uint16](w, v, count)
	case reflect.Int32:
		return put[int32](w, v, count)
	case reflect.Uint32:
		return put[uint32](w, v, count)
	case reflect.Int64:
		return put[int64](w, v, count)
	case reflect.Uint64:
		return put[uint64](w, v, count)
	case reflect.Float32:
		return put[float32](w, v, count)
	case reflect.Float64:
		return put[float64](w, v, count)
	}
	panic("layout: unexpected kind " + k.String())
}

func put[T binrw.Fixed](w *binrw.Writer, v any, count int) error {
	if count == 0 {
		x, err := coerce[T](v)
		if err != nil {
			return err
		}
		binrw.Write(w, x)
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array || rv.Len() != count {
		return fmt.Errorf("%w: want an array of %d elements", ErrValue, count)
	}
	s := make([]T, count)
	for i := range s {
		x, err := coerce[T](rv.Index(i).Interface())
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		s[i] = x
	}
	binrw.WriteSlice(w, s)
	return nil
}

// coerce converts a decoded or user-supplied value to T, refusing lossy
// conversions.
func coerce[T binrw.Fixed](v any) (T, error) {
	var out T
	dst := reflect.ValueOf(&out).Elem()
	src := reflect.ValueOf(v)
	ok := false
	switch dst.Kind() {
	case reflect.Bool:
		if ok = src.Kind() == reflect.Bool; ok {
			dst.SetBool(src.Bool())
		}
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var x int64
		if x, ok = toInt64(src); ok && !dst.OverflowInt(x) {
			dst.SetInt(x)
		} else {
			ok = false
		}
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var x uint64
		if x, ok = toUint64(src); ok && !dst.OverflowUint(x) {
			dst.SetUint(x)
		} else {
			ok = false
		}
	case reflect.Float32, reflect.Float64:
		var x float64
		if x, ok = toFloat64(src); ok && !dst.OverflowFloat(x) {
			dst.SetFloat(x)
		} else {
			ok = false
		}
	}
	if !ok {
		return out, fmt.Errorf("%w: %v does not fit %s", ErrValue, v, dst.Kind())
	}
	return out, nil
}

func toInt64(v reflect.Value) (int64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		return int64(u), u <= math.MaxInt64
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		return int64(f), f == math.Trunc(f) && f >= -(1<<63) && f < 1<<63
	}
	return 0, false
}

func toUint64(v reflect.Value) (uint64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := v.Int()
		return uint64(i), i >= 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint(), true
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		return uint64(f), f == math.Trunc(f) && f >= 0 && f < 1<<64
	}
	return 0, false
}

func toFloat64(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	case reflect.String:
		switch v.String() {
		case "NaN":
			return math.NaN(), true
		case "+Inf", "Inf":
			return math.Inf(1), true
		case "-Inf":
			return math.Inf(-1), true
		}
	}
	return 0, false
}
