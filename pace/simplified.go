package pace

import (
	"io"

	"github.com/manpen/pace26io/diag"
	"github.com/manpen/pace26io/newick"
)

// Read is the lenient convenience entry point: it runs the assembler in
// lenient mode, propagates only fatal errors and discards all warnings
// without inspection. Callers that want the full diagnostic list use
// ReadInstance directly.
func Read[N any](src io.Reader, b newick.Builder[N]) (*Instance[N], error) {
	inst, _, err := ReadInstance(src, b, diag.Lenient)
	if err != nil {
		return nil, err
	}
	return inst, nil
}
