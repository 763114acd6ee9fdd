// Package codec defines the pluggable serialization contract used by the
// UDP manager. Codecs see payload bytes only; the wire id header is framing
// handled a level up and never reaches a codec.
package codec

import "fmt"

// Codec turns Go values into payload bytes and back. Implementations must
// be safe for concurrent use.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// ByName returns the built-in codec with the given name.
func ByName(name string) (Codec, error) {
	switch name {
	case "json":
		return JSON(), nil
	case "cbor":
		return CBOR()
	case "yaml":
		return YAML(), nil
	}
	return nil, fmt.Errorf("unknown codec: %s", name)
}
