package ssg

import (
	"github.com/goccy/go-json"
)

// Transformer serializes dehydrated state for the client.
type Transformer interface {
	Serialize(v any) (any, error)
}

// CombinedTransformer pairs the transformer data is sent to the server with
// and the one responses come back with. Dehydrated state travels like
// input, so Serialize uses Input.
type CombinedTransformer struct {
	Input  Transformer
	Output Transformer
}

// Serialize serializes v with the input side.
func (t CombinedTransformer) Serialize(v any) (any, error) {
	return t.Input.Serialize(v)
}

// JSONTransformer serializes values to JSON documents.
type JSONTransformer struct{}

// Serialize returns v encoded as json.RawMessage.
func (JSONTransformer) Serialize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}
