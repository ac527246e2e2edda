// Package dce implements SSA-based dead-code elimination: an assignment
// whose local is never read, directly or transitively, is rewritten to Nop.
// Because the input is in SSA form every local has at most one definition,
// so a def can be located once up front and revisited in O(1) whenever its
// last use disappears.
package dce

import (
	"sort"

	"github.com/pijama-lang/pijamac/internal/ir"
)

type defLocation struct {
	block ir.Block
	index int
}

func operandLocals(rv ir.Rvalue) []ir.Local {
	switch rv.Kind {
	case ir.RvalueKindUse:
		if rv.Operand.Kind == ir.OperandKindLocal {
			return []ir.Local{rv.Operand.Local}
		}
	case ir.RvalueKindBinaryOp:
		var locals []ir.Local
		if rv.Lhs.Kind == ir.OperandKindLocal {
			locals = append(locals, rv.Lhs.Local)
		}
		if rv.Rhs.Kind == ir.OperandKindLocal {
			locals = append(locals, rv.Rhs.Local)
		}
		return locals
	case ir.RvalueKindPhi:
		locals := make([]ir.Local, len(rv.Phi))
		for i, edge := range rv.Phi {
			locals[i] = edge.Local
		}
		return locals
	}
	return nil
}

func terminatorLocals(term ir.Terminator) []ir.Local {
	switch term.Kind {
	case ir.TerminatorKindJumpIf:
		if term.Cond.Kind == ir.OperandKindLocal {
			return []ir.Local{term.Cond.Local}
		}
	case ir.TerminatorKindReturn:
		return []ir.Local{term.Ret}
	}
	return nil
}

// Eliminate rewrites every dead Assign in fn to Nop, in place, and returns
// the number of statements it erased.
func Eliminate(fn *ir.Function) int {
	defLoc := make(map[ir.Local]defLocation)
	useCount := make(map[ir.Local]int)

	for _, e := range fn.Blocks.Entries() {
		block := e.Key
		bb := *e.Value
		for i, stmt := range bb.Statements {
			if stmt.Kind != ir.StatementKindAssign {
				continue
			}
			defLoc[stmt.Lhs] = defLocation{block: block, index: i}
			for _, u := range operandLocals(stmt.Rhs) {
				useCount[u]++
			}
		}
		for _, u := range terminatorLocals(bb.Terminator) {
			useCount[u]++
		}
	}

	var worklist []ir.Local
	for local := range defLoc {
		if useCount[local] == 0 {
			worklist = append(worklist, local)
		}
	}
	sort.Slice(worklist, func(i, j int) bool { return worklist[i] < worklist[j] })

	erased := 0
	for len(worklist) > 0 {
		local := worklist[0]
		worklist = worklist[1:]

		loc, ok := defLoc[local]
		if !ok || useCount[local] != 0 {
			continue
		}
		bb := fn.Blocks.Get(loc.block)
		stmt := &bb.Statements[loc.index]
		if stmt.Kind != ir.StatementKindAssign {
			continue
		}

		freed := operandLocals(stmt.Rhs)
		*stmt = ir.Nop
		erased++

		for _, u := range freed {
			useCount[u]--
			if useCount[u] == 0 {
				if _, hasDef := defLoc[u]; hasDef {
					worklist = append(worklist, u)
				}
			}
		}
	}

	return erased
}
