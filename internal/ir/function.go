package ir

import "sort"

// BasicBlock is an ordered sequence of Statements followed by exactly one
// Terminator.
type BasicBlock struct {
	Statements []Statement
	Terminator Terminator
}

// Function is a single Pijama function's MIR: a CFG of BasicBlocks plus the
// derived predecessor/successor tables and the synthetic entry/exit blocks.
//
// locals[0..Arity] are the parameters, in System V integer-argument-register
// order. entry is a virtual predecessor of block 0; exit is a virtual
// successor of every Return-terminated block. Both are added to Preds/Succs
// only — they carry no statements and no terminator of their own.
type Function struct {
	Arity  int
	Locals *IndexMap[Local, Ty]
	Blocks *IndexMap[Block, *BasicBlock]
	Preds  *IndexMap[Block, []Block]
	Succs  *IndexMap[Block, []Block]
	Entry  Block
	Exit   Block
}

// insertSorted inserts v into the sorted, duplicate-free slice *s if absent.
func insertSorted(s *[]Block, v Block) {
	i := sort.Search(len(*s), func(i int) bool { return (*s)[i] >= v })
	if i < len(*s) && (*s)[i] == v {
		return
	}
	*s = append(*s, 0)
	copy((*s)[i+1:], (*s)[i:])
	(*s)[i] = v
}

// newFunction computes Preds/Succs/Entry/Exit by scanning every block's
// terminator, then returns the assembled Function. exit is allocated first,
// then entry, mirroring the order the original compiler's FnDef::new uses.
func newFunction(arity int, locals *IndexMap[Local, Ty], blocks *IndexMap[Block, *BasicBlock]) *Function {
	n := blocks.Len()

	preds := NewIndexMapWithCapacity[Block, []Block](n + 2)
	succs := NewIndexMapWithCapacity[Block, []Block](n + 2)
	for i := 0; i < n; i++ {
		preds.Push(nil)
		succs.Push(nil)
	}

	exit := preds.Push(nil)
	succs.Push(nil)

	entry := preds.Push(nil)
	succs.Push([]Block{Block(0)})
	if n > 0 {
		insertSorted(preds.Ptr(Block(0)), entry)
	}

	for _, e := range blocks.Entries() {
		block := e.Key
		bb := *e.Value
		blockSuccs := succs.Ptr(block)
		for _, target := range bb.Terminator.Successors() {
			insertSorted(blockSuccs, target)
			insertSorted(preds.Ptr(target), block)
		}
		if bb.Terminator.Kind == TerminatorKindReturn {
			insertSorted(blockSuccs, exit)
			insertSorted(preds.Ptr(exit), block)
		}
	}

	return &Function{
		Arity:  arity,
		Locals: locals,
		Blocks: blocks,
		Preds:  preds,
		Succs:  succs,
		Entry:  entry,
		Exit:   exit,
	}
}

// NumBlocks returns the number of entries in Preds/Succs, i.e. the number of
// real blocks plus the two synthetic entry/exit blocks.
func (f *Function) NumBlocks() int {
	return f.Preds.Len()
}
