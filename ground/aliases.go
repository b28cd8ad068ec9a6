package ground

import "github.com/hexhex/core/solver"

// Nogood and Lit are re-exported from package solver so that callers of
// the grounder's completion/unfounded-set APIs do not need to import
// solver solely to spell the return types.
type (
	Nogood = solver.Nogood
	Lit    = solver.Lit
)
