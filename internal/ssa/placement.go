package ssa

import "github.com/pijama-lang/pijamac/internal/ir"

// placePhis inserts a Phi assignment for local at the start of every block
// in its iterated dominance frontier, following Cytron et al.: a worklist
// seeded with local's def sites, each popped site contributing its frontier
// blocks (each visited at most once per local).
func placePhis(fn *ir.Function, frontiers map[ir.Block][]ir.Block) {
	defsites := defSites(fn)

	for local, sites := range defsites {
		hasPhi := make(map[ir.Block]bool, len(sites))
		onWorklist := make(map[ir.Block]bool, len(sites))
		worklist := append([]ir.Block(nil), sites...)
		for _, s := range sites {
			onWorklist[s] = true
		}

		for len(worklist) > 0 {
			x := worklist[0]
			worklist = worklist[1:]
			for _, y := range frontiers[x] {
				if hasPhi[y] || y == fn.Entry || y == fn.Exit {
					continue
				}
				insertPhi(fn, y, local)
				hasPhi[y] = true
				if !onWorklist[y] {
					onWorklist[y] = true
					worklist = append(worklist, y)
				}
			}
		}
	}
}

// defSites maps every local to the blocks that assign to it, plus the
// synthetic entry block for every parameter (locals[0:Arity]): a parameter's
// "definition" is the function's entry, which dominates every real block.
func defSites(fn *ir.Function) map[ir.Local][]ir.Block {
	defsites := make(map[ir.Local][]ir.Block)
	for i := 0; i < fn.Arity; i++ {
		local := ir.Local(i)
		defsites[local] = append(defsites[local], fn.Entry)
	}
	for _, e := range fn.Blocks.Entries() {
		block := e.Key
		bb := *e.Value
		for _, stmt := range bb.Statements {
			if stmt.Kind != ir.StatementKindAssign {
				continue
			}
			sites := defsites[stmt.Lhs]
			if len(sites) == 0 || sites[len(sites)-1] != block {
				defsites[stmt.Lhs] = append(sites, block)
			}
		}
	}
	return defsites
}

// insertPhi prepends `local = phi(...)` to block, with one placeholder edge
// per predecessor holding local itself; renaming later overwrites each edge
// with the SSA name reaching the end of that predecessor.
func insertPhi(fn *ir.Function, block ir.Block, local ir.Local) {
	preds := fn.Preds.Get(block)
	edges := make([]ir.PhiEdge, len(preds))
	for i, pred := range preds {
		edges[i] = ir.PhiEdge{Pred: pred, Local: local}
	}
	bb := fn.Blocks.Get(block)
	bb.Statements = append([]ir.Statement{ir.Assign(local, ir.PhiRvalue(edges))}, bb.Statements...)
}
