package pace

import (
	"encoding/json"
	"fmt"
)

// TreeDecomposition stores the "treedecomp" instance parameter. All
// indices are 1-based: the edge (u,v) refers to Bags[u-1] and
// Bags[v-1].
type TreeDecomposition struct {
	Treewidth uint32
	Bags      [][]uint32
	Edges     [][2]uint32
}

// MarshalJSON encodes the decomposition as the bare 3-element array
// [treewidth, bags, edges] used by the container format.
func (td *TreeDecomposition) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{td.Treewidth, td.Bags, td.Edges})
}

func (td *TreeDecomposition) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("tree decomposition: expected 3 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &td.Treewidth); err != nil {
		return fmt.Errorf("tree decomposition treewidth: %w", err)
	}
	if err := json.Unmarshal(raw[1], &td.Bags); err != nil {
		return fmt.Errorf("tree decomposition bags: %w", err)
	}
	if err := json.Unmarshal(raw[2], &td.Edges); err != nil {
		return fmt.Errorf("tree decomposition edges: %w", err)
	}
	return nil
}
