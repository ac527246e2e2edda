package domfrontier

import (
	"testing"

	"github.com/pijama-lang/pijamac/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDiamond builds:
//
//	bb0: if x then bb1 else bb2
//	bb1: jump bb3
//	bb2: jump bb3
//	bb3: return r
func buildDiamond(t *testing.T) (*ir.Function, [4]ir.Block) {
	t.Helper()
	b := ir.NewBuilder(1)
	x := b.AddLocal(ir.TyBool)
	r := b.AddLocal(ir.TyInt)

	bb0 := b.AddBlock()
	bb1 := b.AddBlock()
	bb2 := b.AddBlock()
	bb3 := b.AddBlock()

	b.SetBlock(bb0, &ir.BasicBlock{Terminator: ir.JumpIf(ir.LocalOperand(x), bb1, bb2)})
	b.SetBlock(bb1, &ir.BasicBlock{Terminator: ir.Jump(bb3)})
	b.SetBlock(bb2, &ir.BasicBlock{Terminator: ir.Jump(bb3)})
	b.SetBlock(bb3, &ir.BasicBlock{Terminator: ir.Return(r)})

	return b.Finish(), [4]ir.Block{bb0, bb1, bb2, bb3}
}

// buildLoop builds:
//
//	bb0: if x then bb1 else bb2
//	bb1: jump bb0          (back edge)
//	bb2: return r
func buildLoop(t *testing.T) (*ir.Function, [3]ir.Block) {
	t.Helper()
	b := ir.NewBuilder(1)
	x := b.AddLocal(ir.TyBool)
	r := b.AddLocal(ir.TyInt)

	bb0 := b.AddBlock()
	bb1 := b.AddBlock()
	bb2 := b.AddBlock()

	b.SetBlock(bb0, &ir.BasicBlock{Terminator: ir.JumpIf(ir.LocalOperand(x), bb1, bb2)})
	b.SetBlock(bb1, &ir.BasicBlock{Terminator: ir.Jump(bb0)})
	b.SetBlock(bb2, &ir.BasicBlock{Terminator: ir.Return(r)})

	return b.Finish(), [3]ir.Block{bb0, bb1, bb2}
}

func TestBuildDiamondIdoms(t *testing.T) {
	fn, blocks := buildDiamond(t)
	bb0, bb1, bb2, bb3 := blocks[0], blocks[1], blocks[2], blocks[3]

	tree := Build(fn)

	assert.Equal(t, fn.Entry, tree.IDom[bb0])
	assert.Equal(t, bb0, tree.IDom[bb1])
	assert.Equal(t, bb0, tree.IDom[bb2])
	assert.Equal(t, bb0, tree.IDom[bb3])
	assert.True(t, tree.Dominates(bb0, bb3))
	assert.False(t, tree.Dominates(bb1, bb3))
}

func TestDiamondFrontiers(t *testing.T) {
	fn, blocks := buildDiamond(t)
	bb0, bb1, bb2, bb3 := blocks[0], blocks[1], blocks[2], blocks[3]

	tree := Build(fn)
	frontiers := tree.Frontiers()

	assert.Empty(t, frontiers[bb0])
	assert.Equal(t, []ir.Block{bb3}, frontiers[bb1])
	assert.Equal(t, []ir.Block{bb3}, frontiers[bb2])
	assert.Empty(t, frontiers[bb3])
}

func TestLoopHeaderIsInItsOwnFrontier(t *testing.T) {
	fn, blocks := buildLoop(t)
	bb0, bb1 := blocks[0], blocks[1]

	tree := Build(fn)
	frontiers := tree.Frontiers()

	require.Contains(t, frontiers[bb1], bb0, "the back edge from bb1 puts the loop header bb0 on bb1's frontier")
}
