package pace

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeDecompositionJSON(t *testing.T) {
	const encoded = `[2,[[1,2],[2,3],[3,4]],[[1,2],[2,3]]]`

	var td TreeDecomposition
	require.NoError(t, json.Unmarshal([]byte(encoded), &td))
	assert.Equal(t, uint32(2), td.Treewidth)
	assert.Equal(t, [][]uint32{{1, 2}, {2, 3}, {3, 4}}, td.Bags)
	assert.Equal(t, [][2]uint32{{1, 2}, {2, 3}}, td.Edges)

	out, err := json.Marshal(&td)
	require.NoError(t, err)
	assert.Equal(t, encoded, string(out))
}

func TestTreeDecompositionJSONErrors(t *testing.T) {
	cases := []struct {
		name    string
		encoded string
	}{
		{"not an array", `{"treewidth":2}`},
		{"too few elements", `[2,[[1]]]`},
		{"too many elements", `[2,[[1]],[],[]]`},
		{"wrong treewidth type", `["2",[[1]],[]]`},
		{"negative bag entry", `[2,[[-1]],[]]`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var td TreeDecomposition
			assert.Error(t, json.Unmarshal([]byte(c.encoded), &td))
		})
	}
}
