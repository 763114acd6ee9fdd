package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string  `json:"name" yaml:"name"`
	Score float32 `json:"score" yaml:"score"`
}

func builtins(t *testing.T) []Codec {
	cborCodec, err := CBOR()
	require.NoError(t, err)
	return []Codec{JSON(), cborCodec, YAML()}
}

func TestRoundTrip(t *testing.T) {
	in := sample{Name: "boss", Score: 17.5}

	for _, c := range builtins(t) {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(in)
			require.NoError(t, err)

			var out sample
			require.NoError(t, c.Unmarshal(data, &out))
			require.Equal(t, in, out)
		})
	}
}

func TestUnmarshalWrongShape(t *testing.T) {
	for _, c := range builtins(t) {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal("just a string")
			require.NoError(t, err)

			var out sample
			require.Error(t, c.Unmarshal(data, &out))
		})
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "cbor", "yaml"} {
		c, err := ByName(name)
		require.NoError(t, err)
		require.Equal(t, name, c.Name())
	}

	_, err := ByName("bincode")
	require.Error(t, err)
}
