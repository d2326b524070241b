package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec. It can encode and decode the
// file header and block header payloads described in spec §4.C; new files
// are written with Default (GoJSON) unless a caller passes JSON explicitly.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used when packing new files. It has no bearing on
// reading existing files: header payloads are plain JSON and any Codec
// registered under ByName can decode them.
var Default Codec = GoJSON{}
