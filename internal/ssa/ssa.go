// Package ssa converts a Function's locals to static single assignment form
// in place: every local gets a fresh name per definition, phi assignments
// are inserted at the iterated dominance frontier of each original local's
// definition sites, and every use is rewritten to the definition that
// dominates it.
package ssa

import (
	"github.com/pijama-lang/pijamac/internal/domfrontier"
	"github.com/pijama-lang/pijamac/internal/ir"
)

// Construct rewrites fn into SSA form. It is destructive: callers that need
// the pre-SSA function should operate on a copy.
func Construct(fn *ir.Function) {
	tree := domfrontier.Build(fn)
	frontiers := tree.Frontiers()

	placePhis(fn, frontiers)

	r := &renamer{fn: fn, tree: tree, stacks: make(map[ir.Local][]ir.Local)}
	for i := 0; i < fn.Arity; i++ {
		local := ir.Local(i)
		r.stacks[local] = []ir.Local{local}
	}
	r.run(fn.Entry)
}
