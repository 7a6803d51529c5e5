// Package apiconnect wires the api messages to Connect handlers and clients.
//
// The services speak the Connect protocol with a JSON codec registered
// under the "json" name, so any Connect client (or curl with
// Content-Type: application/json) can call them.
package apiconnect

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// codecName replaces Connect's built-in protojson codec.
const codecName = "json"

// jsonCodec marshals plain Go structs with encoding/json.
type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return codecName }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}

// WithJSON is the codec option every handler and client in this package
// installs; it is exported for callers building their own connect.Client.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
