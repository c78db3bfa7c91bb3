package category

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a JSON object that remembers the order its keys appeared in.
type Object = orderedmap.OrderedMap[string, json.RawMessage]

// NewObject returns an empty Object.
func NewObject() *Object {
	return orderedmap.New[string, json.RawMessage]()
}

// DecodeObject decodes raw JSON into an ordered object. Anything that is not
// a JSON object (null, arrays, scalars, garbage) decodes to an empty object.
func DecodeObject(raw json.RawMessage) *Object {
	obj := NewObject()
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return obj
	}
	if err := json.Unmarshal(trimmed, obj); err != nil {
		return NewObject()
	}
	return obj
}

// Record is one entity's fields. Accessors never fail: a missing or
// non-coercible field reads as the zero value.
type Record struct {
	fields *Object
}

// NewRecord wraps an ordered object as a Record.
func NewRecord(obj *Object) Record {
	if obj == nil {
		obj = NewObject()
	}
	return Record{fields: obj}
}

// RecordFrom decodes raw JSON into a Record.
func RecordFrom(raw json.RawMessage) Record {
	return NewRecord(DecodeObject(raw))
}

// Len returns the number of fields.
func (r Record) Len() int {
	if r.fields == nil {
		return 0
	}
	return r.fields.Len()
}

// Has reports whether the field is present.
func (r Record) Has(name string) bool {
	if r.fields == nil {
		return false
	}
	_, ok := r.fields.Get(name)
	return ok
}

func (r Record) value(name string) any {
	if r.fields == nil {
		return nil
	}
	raw, ok := r.fields.Get(name)
	if !ok {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// Float returns the field as a float64.
func (r Record) Float(name string) float64 {
	return cast.ToFloat64(r.value(name))
}

// Int returns the field as an int64, truncating fractions. Integers are
// read exactly; values outside the int64 range saturate.
func (r Record) Int(name string) int64 {
	if r.fields != nil {
		if raw, ok := r.fields.Get(name); ok {
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.UseNumber()
			var v any
			if dec.Decode(&v) == nil {
				var s string
				switch n := v.(type) {
				case json.Number:
					s = string(n)
				case string:
					s = strings.TrimSpace(n)
				}
				if i, err := strconv.ParseInt(s, 10, 64); err == nil {
					return i
				}
			}
		}
	}
	return saturate(r.Float(name))
}

func saturate(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// String returns the field as a string.
func (r Record) String(name string) string {
	switch v := r.value(name).(type) {
	case nil:
		return ""
	case map[string]any, []any:
		return ""
	default:
		return cast.ToString(v)
	}
}

// Bool returns the field as a bool.
func (r Record) Bool(name string) bool {
	return cast.ToBool(r.value(name))
}

// Object returns a nested object field as a Record.
func (r Record) Object(name string) Record {
	if r.fields == nil {
		return NewRecord(nil)
	}
	raw, ok := r.fields.Get(name)
	if !ok {
		return NewRecord(nil)
	}
	return RecordFrom(raw)
}

// Each calls fn for every field, in document order, with the field value
// decoded as a Record. Non-object values arrive as empty records.
func (r Record) Each(fn func(key string, value Record)) {
	if r.fields == nil {
		return
	}
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, RecordFrom(pair.Value))
	}
}

// EachNumber calls fn for every field, in document order, with the field
// value coerced to a float64.
func (r Record) EachNumber(fn func(key string, value float64)) {
	if r.fields == nil {
		return
	}
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		var v any
		if err := json.Unmarshal(pair.Value, &v); err != nil {
			v = nil
		}
		fn(pair.Key, cast.ToFloat64(v))
	}
}
