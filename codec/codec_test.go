package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Version      int     `json:"version"`
	BinEdgeWidth float64 `json:"bin_edge_width"`
	Buckets      []int   `json:"buckets"`
}

func TestCodecs_Interoperate(t *testing.T) {
	in := sample{Version: 1, BinEdgeWidth: 64, Buckets: []int{3, 17}}

	for _, enc := range []Codec{JSON{}, GoJSON{}} {
		for _, dec := range []Codec{JSON{}, GoJSON{}} {
			data, err := enc.Marshal(in)
			require.NoError(t, err)

			var out sample
			require.NoError(t, dec.Unmarshal(data, &out), "%s -> %s", enc.Name(), dec.Name())
			assert.Equal(t, in, out)
		}
	}
}

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	c, ok = ByName("go-json")
	require.True(t, ok)
	assert.Equal(t, "go-json", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestMustMarshal(t *testing.T) {
	assert.NotEmpty(t, MustMarshal(nil, sample{Version: 1}))
	assert.Panics(t, func() { MustMarshal(JSON{}, make(chan int)) })
}
