package ir

import "fmt"

// Builder assembles a Function from block-id allocations, typed local-id
// allocations, and per-block mutation, then validates and computes the
// derived tables in Finish.
type Builder struct {
	arity      int
	localTypes []Ty
	blocks     []*BasicBlock
}

// NewBuilder starts building a Function of the given arity.
func NewBuilder(arity int) *Builder {
	return &Builder{arity: arity}
}

// AddLocal allocates a fresh Local of type ty.
func (b *Builder) AddLocal(ty Ty) Local {
	local := Local(len(b.localTypes))
	b.localTypes = append(b.localTypes, ty)
	return local
}

// AddBlock allocates a fresh, as-yet-unpopulated Block.
func (b *Builder) AddBlock() Block {
	block := Block(len(b.blocks))
	b.blocks = append(b.blocks, nil)
	return block
}

// SetBlock populates a previously allocated Block with its statements and
// terminator. Calling it twice for the same Block overwrites the first body.
func (b *Builder) SetBlock(block Block, bb *BasicBlock) {
	b.blocks[block] = bb
}

// Finish validates that every allocated block was populated and that arity
// does not exceed the number of declared locals, then computes preds/succs/
// entry/exit and returns the finished Function. It panics on either
// violation: these are front-end bugs, not recoverable conditions.
func (b *Builder) Finish() *Function {
	if b.arity > len(b.localTypes) {
		panic(fmt.Sprintf("ir: function declares arity %d but only %d locals", b.arity, len(b.localTypes)))
	}
	for i, bb := range b.blocks {
		if bb == nil {
			panic(fmt.Sprintf("ir: block bb%d was allocated but never populated", i))
		}
	}

	locals := NewIndexMapWithCapacity[Local, Ty](len(b.localTypes))
	for _, ty := range b.localTypes {
		locals.Push(ty)
	}

	blocks := NewIndexMapWithCapacity[Block, *BasicBlock](len(b.blocks))
	for _, bb := range b.blocks {
		blocks.Push(bb)
	}

	return newFunction(b.arity, locals, blocks)
}
