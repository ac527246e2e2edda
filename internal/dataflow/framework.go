// Package dataflow implements the generic fixed-point dataflow framework and
// the three concrete analyses built on it: reaching definitions, live
// variables, and dominators.
//
// The framework is a single-entry, worklist-free iterator: every pass it
// recomputes every real block's value from its current predecessors (forward)
// or successors (backward), and stops once a full pass changes nothing. This
// mirrors the original compiler's `while { changed } {}` loop over
// `fn_def.blocks.iter()` rather than a classic worklist, which is sufficient
// because every transfer function here is monotone over a finite lattice.
package dataflow

import "github.com/pijama-lang/pijamac/internal/ir"

// Transfer applies a block's gen/kill logic to the value joined from its
// predecessors (forward analyses) or successors (backward analyses).
type Transfer[T any] func(block ir.Block, in T) T

// Join merges other into the accumulator acc in place.
type Join[T any] func(acc *T, other T)

// Equal reports whether two analysis values are identical, used to detect
// the fixed point.
type Equal[T any] func(a, b T) bool

// RunForward computes a forward, may-or-must dataflow analysis. bottom is
// both the join identity and the default out-value of every block; entry, if
// non-nil, overrides the boundary out-value of the synthetic entry block
// (used by reaching-definitions' Dummy seeding and dominators' {entry} seed).
func RunForward[T any](
	fn *ir.Function,
	bottom func() T,
	entry *T,
	transfer Transfer[T],
	join Join[T],
	equal Equal[T],
) *ir.IndexMap[ir.Block, T] {
	values := ir.NewIndexMapWithCapacity[ir.Block, T](fn.NumBlocks())
	for i := 0; i < fn.NumBlocks(); i++ {
		values.Push(bottom())
	}
	if entry != nil {
		values.Set(fn.Entry, *entry)
	}

	for changed := true; changed; {
		changed = false
		for _, e := range fn.Blocks.Entries() {
			block := e.Key
			acc := bottom()
			for _, pred := range fn.Preds.Get(block) {
				join(&acc, values.Get(pred))
			}
			out := transfer(block, acc)
			if !equal(out, values.Get(block)) {
				values.Set(block, out)
				changed = true
			}
		}
	}
	return values
}

// RunBackward computes a backward, may dataflow analysis: the mirror image
// of RunForward, joining over successors instead of predecessors.
func RunBackward[T any](
	fn *ir.Function,
	bottom func() T,
	transfer Transfer[T],
	join Join[T],
	equal Equal[T],
) *ir.IndexMap[ir.Block, T] {
	values := ir.NewIndexMapWithCapacity[ir.Block, T](fn.NumBlocks())
	for i := 0; i < fn.NumBlocks(); i++ {
		values.Push(bottom())
	}

	for changed := true; changed; {
		changed = false
		for _, e := range fn.Blocks.Entries() {
			block := e.Key
			acc := bottom()
			for _, succ := range fn.Succs.Get(block) {
				join(&acc, values.Get(succ))
			}
			in := transfer(block, acc)
			if !equal(in, values.Get(block)) {
				values.Set(block, in)
				changed = true
			}
		}
	}
	return values
}
