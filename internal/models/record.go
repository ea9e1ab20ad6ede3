// Package models defines the raw and normalized product record types.
package models

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// RawRecord is one product object as yielded by the document source.
// Fields are looked up lazily; any of them may be missing, null, or of an
// unexpected JSON type.
type RawRecord struct {
	root gjson.Result
	data []byte
}

// NewRawRecord wraps the JSON bytes of a single record.
// The bytes are retained, not copied.
func NewRawRecord(data []byte) RawRecord {
	return RawRecord{
		root: gjson.ParseBytes(data),
		data: data,
	}
}

// Bytes returns the record's JSON text.
func (r RawRecord) Bytes() []byte {
	return r.data
}

// IsObject reports whether the record is a JSON object.
func (r RawRecord) IsObject() bool {
	return r.root.IsObject()
}

// Get returns the value stored under key. A missing key yields a result whose
// Exists method reports false. Duplicate keys resolve to the last occurrence.
func (r RawRecord) Get(key string) gjson.Result {
	var found gjson.Result

	if !r.root.IsObject() {
		return found
	}

	r.root.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			found = v
		}

		return true
	})

	return found
}

// Keys returns the top-level keys in source order.
func (r RawRecord) Keys() []string {
	var keys []string

	if !r.root.IsObject() {
		return keys
	}

	r.root.ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.Str)
		return true
	})

	return keys
}

// MarshalJSON emits the record verbatim.
func (r RawRecord) MarshalJSON() ([]byte, error) {
	if len(r.data) == 0 {
		return []byte("null"), nil
	}

	return json.RawMessage(r.data).MarshalJSON()
}
