package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Document is one schemaless record. Store-managed keys are id, created_at
// and updated_at.
type Document map[string]any

const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// ID returns the record id, or 0 when it is missing or not numeric.
func (d Document) ID() int64 {
	id, err := toInt64(d[FieldID])
	if err != nil {
		return 0
	}
	return id
}

// Clone returns a shallow copy.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Decode copies the document into a typed value through its JSON form.
// Timestamp fields written without a zone (e.g. 2024-01-15T10:30:00.123456)
// are read as UTC.
func (d Document) Decode(v any) error {
	raw, err := json.Marshal(normalizeTimestamps(d))
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

func isTimestampField(key string) bool {
	return strings.HasSuffix(key, "_at") || strings.HasSuffix(key, "_date")
}

// normalizeTimestamps rewrites parseable timestamp strings as RFC 3339.
// Values cast cannot parse are left for the decoder to reject.
func normalizeTimestamps(d Document) Document {
	var out Document
	for k, v := range d {
		s, ok := v.(string)
		if !ok || s == "" || !isTimestampField(k) {
			continue
		}
		if _, err := time.Parse(time.RFC3339Nano, s); err == nil {
			continue
		}
		ts, err := cast.ToTimeE(s)
		if err != nil {
			continue
		}
		if out == nil {
			out = d.Clone()
		}
		out[k] = ts.UTC().Format(time.RFC3339Nano)
	}
	if out == nil {
		return d
	}
	return out
}

// FromStruct converts a typed value into a Document. Numbers are kept as
// json.Number so they round-trip without float conversion.
func FromStruct(v any) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("value is not an object: %w", err)
	}
	return doc, nil
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return true
	}
	return false
}

func toInt64(v any) (int64, error) {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		return int64(f), nil
	}
	if !isNumber(v) {
		return 0, fmt.Errorf("not a number: %T", v)
	}
	return cast.ToInt64E(v)
}

func toFloat64(v any) (float64, error) {
	if n, ok := v.(json.Number); ok {
		return n.Float64()
	}
	return cast.ToFloat64E(v)
}

// valuesEqual compares a stored value with a caller value. Numbers compare
// by magnitude regardless of their Go type.
func valuesEqual(stored, want any) bool {
	if isNumber(stored) && isNumber(want) {
		a, errA := toFloat64(stored)
		b, errB := toFloat64(want)
		return errA == nil && errB == nil && a == b
	}
	switch w := want.(type) {
	case string:
		s, ok := stored.(string)
		return ok && s == w
	case bool:
		b, ok := stored.(bool)
		return ok && b == w
	case nil:
		return stored == nil
	}
	return fmt.Sprint(stored) == fmt.Sprint(want)
}

// stringify renders a value for text search. Lists are joined with ", ".
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, stringify(e))
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(t, ", ")
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}
