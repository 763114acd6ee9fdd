package codec

import "gopkg.in/yaml.v3"

type yamlCodec struct{}

// YAML returns a codec that encodes payloads as YAML. Mostly useful for
// debugging peers by hand; JSON or CBOR are the better wire choices.
func YAML() Codec { return yamlCodec{} }

func (yamlCodec) Name() string { return "yaml" }

func (yamlCodec) Marshal(v any) ([]byte, error) { return yaml.Marshal(v) }

func (yamlCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }
