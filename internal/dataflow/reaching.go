package dataflow

import "github.com/pijama-lang/pijamac/internal/ir"

// DefKind distinguishes a function-entry dummy definition (a local's
// parameter or its pre-entry "undefined" value) from a real assignment.
type DefKind int

const (
	DefDummy DefKind = iota
	DefReal
)

// Def is one definition site of a local: either the dummy definition that
// reaches every local at function entry, or a real assignment at a specific
// block and statement index.
type Def struct {
	Kind      DefKind
	Local     ir.Local
	Block     ir.Block
	StmtIndex int
}

func DummyDef(local ir.Local) Def {
	return Def{Kind: DefDummy, Local: local}
}

func RealDef(block ir.Block, stmtIndex int, local ir.Local) Def {
	return Def{Kind: DefReal, Local: local, Block: block, StmtIndex: stmtIndex}
}

// DefID indexes into ReachingDefs.Defs and is the BitSet key used by the
// reaching-definitions lattice.
type DefID uint32

const noDef = ^DefID(0)

// ReachingDefs is the result of running reaching-definitions analysis: for
// every local, the program-order list of its definitions (dummy first), and
// the fixed-point In/Out sets per block.
type ReachingDefs struct {
	Defs    []Def
	ByLocal map[ir.Local][]DefID
	In      *ir.IndexMap[ir.Block, ir.BitSet[DefID]]
	Out     *ir.IndexMap[ir.Block, ir.BitSet[DefID]]
}

// ComputeReachingDefs runs forward, may reaching-definitions analysis: a
// definition reaches a program point if some path from the entry defines the
// local there without a later definition of the same local on that path.
func ComputeReachingDefs(fn *ir.Function) *ReachingDefs {
	var defs []Def
	byLocal := make(map[ir.Local][]DefID)
	// realDefAt[block][stmtIndex] is the DefID of that statement's
	// assignment, or noDef if the statement is not an Assign.
	realDefAt := make(map[ir.Block][]DefID)

	for _, local := range fn.Locals.Keys() {
		id := DefID(len(defs))
		defs = append(defs, DummyDef(local))
		byLocal[local] = append(byLocal[local], id)
	}

	for _, e := range fn.Blocks.Entries() {
		block := e.Key
		bb := *e.Value
		ids := make([]DefID, len(bb.Statements))
		for i, stmt := range bb.Statements {
			if stmt.Kind != ir.StatementKindAssign {
				ids[i] = noDef
				continue
			}
			id := DefID(len(defs))
			defs = append(defs, RealDef(block, i, stmt.Lhs))
			byLocal[stmt.Lhs] = append(byLocal[stmt.Lhs], id)
			ids[i] = id
		}
		realDefAt[block] = ids
	}

	capacity := len(defs)
	bottom := func() ir.BitSet[DefID] { return ir.NewBitSet[DefID](capacity) }

	entryOut := ir.NewBitSet[DefID](capacity)
	for _, local := range fn.Locals.Keys() {
		entryOut.Insert(int(byLocal[local][0]))
	}

	transfer := func(block ir.Block, in ir.BitSet[DefID]) ir.BitSet[DefID] {
		out := in.Clone()
		for _, id := range realDefAt[block] {
			if id == noDef {
				continue
			}
			local := defs[id].Local
			for _, other := range byLocal[local] {
				out.Remove(int(other))
			}
			out.Insert(int(id))
		}
		return out
	}
	join := func(acc *ir.BitSet[DefID], other ir.BitSet[DefID]) { acc.Union(other) }
	equal := func(a, b ir.BitSet[DefID]) bool { return a.Equal(b) }

	out := RunForward(fn, bottom, &entryOut, transfer, join, equal)

	in := ir.NewIndexMapWithCapacity[ir.Block, ir.BitSet[DefID]](fn.NumBlocks())
	for i := 0; i < fn.NumBlocks(); i++ {
		in.Push(bottom())
	}
	for _, e := range fn.Blocks.Entries() {
		block := e.Key
		acc := bottom()
		for _, pred := range fn.Preds.Get(block) {
			acc.Union(out.Get(pred))
		}
		in.Set(block, acc)
	}

	return &ReachingDefs{Defs: defs, ByLocal: byLocal, In: in, Out: out}
}
