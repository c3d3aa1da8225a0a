package store

import (
	"bytes"
	"encoding/json"
)

// Shape identifies how a remote payload wraps its rows
type Shape int

const (
	// ShapeUnknown is any payload that carries no recognizable rows
	ShapeUnknown Shape = iota
	// ShapeList is a bare array of rows
	ShapeList
	// ShapeEnvelope is an object holding the rows under "data"
	ShapeEnvelope
	// ShapeNestedEnvelope is an envelope whose "data" is itself an envelope
	ShapeNestedEnvelope
)

func (s Shape) String() string {
	switch s {
	case ShapeList:
		return "list"
	case ShapeEnvelope:
		return "envelope"
	case ShapeNestedEnvelope:
		return "nested_envelope"
	default:
		return "unknown"
	}
}

// Normalize extracts the rows of a remote payload. Payloads outside the
// recognized shapes yield no rows and ShapeUnknown; callers treat that as
// "no data" rather than as a failure.
func Normalize(resp Response) ([]Record, Shape) {
	raw := bytes.TrimSpace(resp)
	if len(raw) == 0 {
		return nil, ShapeUnknown
	}

	if records, ok := decodeList(raw); ok {
		return records, ShapeList
	}

	inner, ok := envelopeData(raw)
	if !ok {
		return nil, ShapeUnknown
	}
	if records, ok := decodeList(inner); ok {
		return records, ShapeEnvelope
	}

	nested, ok := envelopeData(inner)
	if !ok {
		return nil, ShapeUnknown
	}
	if records, ok := decodeList(nested); ok {
		return records, ShapeNestedEnvelope
	}

	return nil, ShapeUnknown
}

// Encode wraps rows in the given shape. ShapeUnknown encodes as JSON null.
func Encode(rows any, shape Shape) (Response, error) {
	var payload any
	switch shape {
	case ShapeList:
		payload = rows
	case ShapeEnvelope:
		payload = map[string]any{"data": rows, "count": nil}
	case ShapeNestedEnvelope:
		payload = map[string]any{"data": map[string]any{"data": rows}}
	default:
		payload = nil
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return Response(b), nil
}

func decodeList(raw []byte) ([]Record, bool) {
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		record, err := decodeRecord(item)
		if err != nil {
			return nil, false
		}
		records = append(records, record)
	}
	return records, true
}

func envelopeData(raw []byte) ([]byte, bool) {
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, false
	}
	data, ok := envelope["data"]
	if !ok {
		return nil, false
	}
	return bytes.TrimSpace(data), true
}
