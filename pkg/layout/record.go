package layout

import (
	"bytes"
	"encoding/hex"
	"math"
	"strconv"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Value is one decoded field.
type Value struct {
	Name  string
	Value any
}

// Record holds decoded fields in declared order. Scalars decode to their Go
// type (u16 to uint16, f64 to float64 and so on), arrays to typed slices,
// bytes to []byte, uvarint to uint64, string and enum to string.
type Record []Value

// Get returns the value of the named field.
func (rec Record) Get(name string) (any, bool) {
	for _, v := range rec {
		if v.Name == name {
			return v.Value, true
		}
	}
	return nil, false
}

// Map returns the record as a map, suitable for Plan.Encode.
func (rec Record) Map() map[string]any {
	m := make(map[string]any, len(rec))
	for _, v := range rec {
		m[v.Name] = v.Value
	}
	return m
}

// text renders bytes as hex so they survive a round trip through a values
// file.
func text(v any) any {
	if b, ok := v.([]byte); ok {
		return hex.EncodeToString(b)
	}
	return v
}

// jsonText is text plus a string form for NaN and infinities, which JSON
// numbers cannot carry.
func jsonText(v any) any {
	switch x := v.(type) {
	case float32:
		return nonFinite(float64(x), v)
	case float64:
		return nonFinite(x, v)
	case []float32:
		return floatSlice(x)
	case []float64:
		return floatSlice(x)
	}
	return text(v)
}

func nonFinite(f float64, v any) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return v
}

func floatSlice[T float32 | float64](s []T) any {
	out := make([]any, len(s))
	for i, f := range s {
		out[i] = nonFinite(float64(f), f)
	}
	return out
}

// MarshalJSON writes the record as an object with keys in field order. NaN
// and infinite floats are written as the strings "NaN", "+Inf" and "-Inf".
func (rec Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range rec {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(v.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(jsonText(v.Value))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes the record as a mapping with keys in field order.
func (rec Record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, v := range rec {
		var val yaml.Node
		if err := val.Encode(text(v.Value)); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Name},
			&val)
	}
	return node, nil
}
