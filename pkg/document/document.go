// Package document provides the narrow read/write boundary over the JSON
// tree exchanged at the system boundary.
//
// Resource and datatype code never touches raw JSON text below this
// interface: it decodes bytes into a Document, extracts fields through
// type-checked getters (shape mismatch yields absent, never coercion),
// and builds output trees through the Set helpers, which omit unset values.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/shopspring/decimal"

	"github.com/gofhir/fhircore/pool"
)

// Document is an object-shaped JSON tree node.
// Keys are case-sensitive.
type Document map[string]any

// New creates an empty Document.
func New() Document {
	return make(Document)
}

// Decode parses JSON bytes into a Document.
// The top-level value must be an object. Numbers are kept as json.Number
// so decimal values survive a decode/encode round trip without float drift.
func Decode(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("document: decode: %w", err)
	}
	return doc, nil
}

// Encode serializes the Document to JSON bytes.
func (d Document) Encode() ([]byte, error) {
	buf := pool.AcquireBuffer()
	defer pool.ReleaseBuffer(buf)

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("document: encode: %w", err)
	}

	// Encoder appends a trailing newline; drop it.
	out := make([]byte, buf.Len()-1)
	copy(out, buf.Bytes())
	return out, nil
}

// PeekResourceType extracts the root resourceType field from raw JSON
// without decoding the full tree. Returns "" when absent or not a string.
func PeekResourceType(data []byte) string {
	v, err := jsonparser.GetString(data, "resourceType")
	if err != nil {
		return ""
	}
	return v
}

// --- Field extraction ---

// Get returns the raw value for key.
func (d Document) Get(key string) (any, bool) {
	v, ok := d[key]
	return v, ok
}

// Has reports whether key is present.
func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// GetString returns the string value for key.
// Absent or non-string values yield ("", false).
func (d Document) GetString(key string) (string, bool) {
	return AsString(d[key])
}

// GetBool returns the boolean value for key.
// Absent or non-boolean values yield (false, false).
func (d Document) GetBool(key string) (bool, bool) {
	b, ok := d[key].(bool)
	return b, ok
}

// GetInt returns the integer value for key.
// Non-numeric values yield (0, false); fractional values are truncated.
func (d Document) GetInt(key string) (int, bool) {
	dec, ok := AsDecimal(d[key])
	if !ok {
		return 0, false
	}
	return int(dec.IntPart()), true
}

// GetDecimal returns the numeric value for key as a decimal.
// Absent or non-numeric values yield (zero, false).
func (d Document) GetDecimal(key string) (decimal.Decimal, bool) {
	return AsDecimal(d[key])
}

// GetObject returns the object value for key.
// Absent or non-object values yield (nil, false).
func (d Document) GetObject(key string) (Document, bool) {
	return AsObject(d[key])
}

// GetArray returns the array value for key.
// Absent or non-array values yield (nil, false).
func (d Document) GetArray(key string) ([]any, bool) {
	return AsArray(d[key])
}

// ForEach calls fn for each element of the array at key.
// Absent or non-array values iterate zero times.
func (d Document) ForEach(key string, fn func(v any)) {
	arr, ok := d.GetArray(key)
	if !ok {
		return
	}
	for _, v := range arr {
		fn(v)
	}
}

// --- Type predicates and conversions ---

// IsString reports whether v is a JSON string.
func IsString(v any) bool {
	_, ok := v.(string)
	return ok
}

// IsBool reports whether v is a JSON boolean.
func IsBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

// IsNumber reports whether v is a JSON number.
func IsNumber(v any) bool {
	switch v.(type) {
	case json.Number, float64, float32, int, int64:
		return true
	default:
		return false
	}
}

// IsObject reports whether v is a JSON object.
func IsObject(v any) bool {
	_, ok := AsObject(v)
	return ok
}

// IsArray reports whether v is a JSON array.
func IsArray(v any) bool {
	_, ok := v.([]any)
	return ok
}

// AsString converts v to a string if it is one.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsDecimal converts a JSON number to a decimal.
func AsDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case json.Number:
		dec, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, false
		}
		return dec, true
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	default:
		return decimal.Zero, false
	}
}

// AsObject converts v to a Document if it is object-shaped.
// Both decoded maps and constructed Documents qualify.
func AsObject(v any) (Document, bool) {
	switch o := v.(type) {
	case Document:
		return o, true
	case map[string]any:
		return Document(o), true
	default:
		return nil, false
	}
}

// AsArray converts v to a JSON array if it is one.
func AsArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

// --- Construction ---

// Set stores a raw value under key. Nil values are dropped.
func (d Document) Set(key string, v any) {
	if v == nil {
		return
	}
	d[key] = v
}

// SetString stores a string under key, omitting empty strings.
func (d Document) SetString(key, v string) {
	if v == "" {
		return
	}
	d[key] = v
}

// SetBool stores a boolean under key.
func (d Document) SetBool(key string, v bool) {
	d[key] = v
}

// SetInt stores an integer under key.
func (d Document) SetInt(key string, v int) {
	d[key] = json.Number(fmt.Sprintf("%d", v))
}

// SetDecimal stores a decimal number under key.
// The value is kept as json.Number so it is emitted as a raw JSON number
// with its exact decimal representation.
func (d Document) SetDecimal(key string, v decimal.Decimal) {
	d[key] = json.Number(v.String())
}

// SetArray stores a JSON array under key, omitting empty arrays.
func (d Document) SetArray(key string, items []any) {
	if len(items) == 0 {
		return
	}
	d[key] = items
}
