package stream

import (
	"bytes"
	"encoding/json"
	"fmt"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Normalize prepares a raw payload for decoding. The broadcast files carry a
// UTF-8 byte order mark. JSON null in string fields needs no rewriting: it
// leaves the field empty.
func Normalize(raw []byte) []byte {
	return bytes.TrimPrefix(raw, utf8BOM)
}

// decodeArray decodes a payload that must be a JSON array.
func decodeArray[E any](raw []byte) ([]E, error) {
	var out []E
	if err := json.Unmarshal(Normalize(raw), &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("expected a JSON array")
	}
	return out, nil
}
