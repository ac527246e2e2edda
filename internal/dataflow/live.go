package dataflow

import "github.com/pijama-lang/pijamac/internal/ir"

// LiveVars is the result of live-variable analysis: for every block, the set
// of locals live on entry (In) and on exit (Out).
type LiveVars struct {
	In  *ir.IndexMap[ir.Block, ir.BitSet[ir.Local]]
	Out *ir.IndexMap[ir.Block, ir.BitSet[ir.Local]]
}

func insertOperandLocal(set *ir.BitSet[ir.Local], operand ir.Operand) {
	if operand.Kind == ir.OperandKindLocal {
		set.Insert(int(operand.Local))
	}
}

// transferStmt applies one statement's gen/kill to a live set being walked
// backward: an Assign kills its lhs, then gens whatever locals its rvalue
// reads. Phi operands are gen'd unconditionally regardless of which
// predecessor edge the set is being computed for; callers that need
// edge-precise liveness across a Phi must special-case it themselves.
func transferStmt(set *ir.BitSet[ir.Local], stmt ir.Statement) {
	if stmt.Kind != ir.StatementKindAssign {
		return
	}
	set.Remove(int(stmt.Lhs))
	switch stmt.Rhs.Kind {
	case ir.RvalueKindUse:
		insertOperandLocal(set, stmt.Rhs.Operand)
	case ir.RvalueKindBinaryOp:
		insertOperandLocal(set, stmt.Rhs.Lhs)
		insertOperandLocal(set, stmt.Rhs.Rhs)
	case ir.RvalueKindPhi:
		for _, edge := range stmt.Rhs.Phi {
			set.Insert(int(edge.Local))
		}
	}
}

// transferTerm applies a terminator's gen to a live set: JumpIf gens its
// condition, Return gens its result; Jump gens nothing.
func transferTerm(set *ir.BitSet[ir.Local], term ir.Terminator) {
	switch term.Kind {
	case ir.TerminatorKindJumpIf:
		insertOperandLocal(set, term.Cond)
	case ir.TerminatorKindReturn:
		set.Insert(int(term.Ret))
	}
}

// ComputeLiveVars runs backward, may live-variable analysis.
func ComputeLiveVars(fn *ir.Function) *LiveVars {
	capacity := fn.Locals.Len()
	bottom := func() ir.BitSet[ir.Local] { return ir.NewBitSet[ir.Local](capacity) }

	transfer := func(block ir.Block, out ir.BitSet[ir.Local]) ir.BitSet[ir.Local] {
		live := out.Clone()
		bb := fn.Blocks.Get(block)
		transferTerm(&live, bb.Terminator)
		for i := len(bb.Statements) - 1; i >= 0; i-- {
			transferStmt(&live, bb.Statements[i])
		}
		return live
	}
	join := func(acc *ir.BitSet[ir.Local], other ir.BitSet[ir.Local]) { acc.Union(other) }
	equal := func(a, b ir.BitSet[ir.Local]) bool { return a.Equal(b) }

	in := RunBackward(fn, bottom, transfer, join, equal)

	out := ir.NewIndexMapWithCapacity[ir.Block, ir.BitSet[ir.Local]](fn.NumBlocks())
	for i := 0; i < fn.NumBlocks(); i++ {
		out.Push(bottom())
	}
	for _, e := range fn.Blocks.Entries() {
		block := e.Key
		acc := bottom()
		for _, succ := range fn.Succs.Get(block) {
			acc.Union(in.Get(succ))
		}
		out.Set(block, acc)
	}

	return &LiveVars{In: in, Out: out}
}
