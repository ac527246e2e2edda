package dataflow

import "github.com/pijama-lang/pijamac/internal/ir"

// Dominators is the result of the dataflow-lattice dominator analysis: for
// every block, the set of blocks that dominate it (including itself).
//
// This is a forward, must analysis over the same fixed-point framework as
// reaching definitions and live variables, kept deliberately separate from
// the Lengauer-Tarjan immediate-dominator computation in package
// domfrontier, which exists only to support SSA construction and needs the
// full dominator tree rather than dominator sets.
type Dominators struct {
	Dom *ir.IndexMap[ir.Block, ir.BitSet[ir.Block]]
}

// ComputeDominators runs forward, must dominator-set analysis: Dom[entry] =
// {entry}, Dom[b] = {b} ∪ ⋂ Dom[pred] for every other block.
func ComputeDominators(fn *ir.Function) *Dominators {
	capacity := fn.NumBlocks()
	bottom := func() ir.BitSet[ir.Block] { return ir.FullBitSet[ir.Block](capacity) }

	entry := ir.NewBitSet[ir.Block](capacity)
	entry.Insert(int(fn.Entry))

	transfer := func(block ir.Block, in ir.BitSet[ir.Block]) ir.BitSet[ir.Block] {
		out := in.Clone()
		out.Insert(int(block))
		return out
	}
	join := func(acc *ir.BitSet[ir.Block], other ir.BitSet[ir.Block]) { acc.Intersection(other) }
	equal := func(a, b ir.BitSet[ir.Block]) bool { return a.Equal(b) }

	dom := RunForward(fn, bottom, &entry, transfer, join, equal)
	return &Dominators{Dom: dom}
}

// Dominates reports whether a dominates b (a and b may be equal).
func (d *Dominators) Dominates(a, b ir.Block) bool {
	set := d.Dom.Get(b)
	return set.Contains(int(a))
}
