package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

var (
	errNotArray     = errors.New("response body is not a JSON array")
	errTrailingData = errors.New("response body has data after the JSON array")
)

// pathSeparator separates nested field names in a field path ("address.city").
const pathSeparator = "."

// Record is one decoded JSON object from the source collection.
// Numbers are kept as json.Number so identifiers display exactly as sent.
type Record map[string]any

// SplitPath splits a dotted field path into its segments.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, pathSeparator)
}

// Lookup resolves a dotted field path. The boolean is false when any
// segment is missing or walks into a non-object value.
func (r Record) Lookup(path string) (any, bool) {
	return r.LookupParts(SplitPath(path))
}

// LookupParts resolves a pre-split field path.
func (r Record) LookupParts(parts []string) (any, bool) {
	if len(parts) == 0 {
		return nil, false
	}

	var current any = map[string]any(r)
	for _, part := range parts {
		obj, ok := asObject(current)
		if !ok {
			return nil, false
		}
		current, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// ID returns the display form of the record's "id" field, or "" when absent.
func (r Record) ID() string {
	v, ok := r["id"]
	if !ok {
		return ""
	}
	return DisplayValue(v)
}

// asObject accepts both Record and plain decoded maps.
func asObject(v any) (map[string]any, bool) {
	switch obj := v.(type) {
	case Record:
		return obj, true
	case map[string]any:
		return obj, true
	default:
		return nil, false
	}
}

// DisplayValue coerces a decoded JSON value into its display string.
// Nested objects and arrays are rendered as compact JSON.
func DisplayValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// NumericValue reports the numeric value of v when it is a JSON number or a
// Go number. Strings never count, even when they parse as one.
func NumericValue(v any) (float64, bool) {
	switch val := v.(type) {
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	default:
		return 0, false
	}
}

// DecodeRecords decodes a JSON array of objects. Anything else, including
// trailing data after the array, is an error.
func DecodeRecords(data []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errNotArray
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}

	records := make([]Record, 0, len(raw))
	for _, obj := range raw {
		if obj == nil {
			continue
		}
		records = append(records, Record(obj))
	}
	return records, nil
}
