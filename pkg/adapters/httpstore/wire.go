// Package httpstore speaks the graft-kv wire protocol: a Store client on one
// side and the matching chi handler on the other. Values travel as a kind
// tag plus a string rendering so every primitive survives JSON transport.
package httpstore

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/aretw0/graft/pkg/core"
)

// Payload is the wire representation of one primitive value.
type Payload struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// keysResponse is the wire representation of a key listing.
type keysResponse struct {
	Keys []string `json:"keys"`
}

// EncodeValue flattens a canonical primitive into a payload.
func EncodeValue(v any) (Payload, error) {
	switch n := v.(type) {
	case string:
		return Payload{Kind: "string", Value: n}, nil
	case int64:
		return Payload{Kind: "int", Value: strconv.FormatInt(n, 10)}, nil
	case int:
		return Payload{Kind: "int", Value: strconv.FormatInt(int64(n), 10)}, nil
	case float64:
		return Payload{Kind: "float", Value: strconv.FormatFloat(n, 'g', -1, 64)}, nil
	case bool:
		return Payload{Kind: "bool", Value: strconv.FormatBool(n)}, nil
	case []byte:
		return Payload{Kind: "bytes", Value: base64.StdEncoding.EncodeToString(n)}, nil
	}
	return Payload{}, fmt.Errorf("%w: cannot transport %T", core.ErrTypeMismatch, v)
}

// Decode restores the canonical primitive from a payload.
func (p Payload) Decode() (any, error) {
	switch p.Kind {
	case "string":
		return p.Value, nil
	case "int":
		return strconv.ParseInt(p.Value, 10, 64)
	case "float":
		return strconv.ParseFloat(p.Value, 64)
	case "bool":
		return strconv.ParseBool(p.Value)
	case "bytes":
		return base64.StdEncoding.DecodeString(p.Value)
	}
	return nil, fmt.Errorf("unknown wire kind %q", p.Kind)
}
