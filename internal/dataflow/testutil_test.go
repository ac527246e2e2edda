package dataflow

import (
	"testing"

	"github.com/pijama-lang/pijamac/internal/ir"
)

// buildDiamond builds:
//
//	bb0: if x then bb1 else bb2
//	bb1: r = 1; jump bb3
//	bb2: r = 2; jump bb3
//	bb3: return r
func buildDiamond(t *testing.T) (*ir.Function, ir.Local, ir.Local, [4]ir.Block) {
	t.Helper()
	b := ir.NewBuilder(1)
	x := b.AddLocal(ir.TyBool)
	r := b.AddLocal(ir.TyInt)

	bb0 := b.AddBlock()
	bb1 := b.AddBlock()
	bb2 := b.AddBlock()
	bb3 := b.AddBlock()

	one := ir.ConstantOperand(ir.Literal{Data: 1, Ty: ir.TyInt})
	two := ir.ConstantOperand(ir.Literal{Data: 2, Ty: ir.TyInt})

	b.SetBlock(bb0, &ir.BasicBlock{Terminator: ir.JumpIf(ir.LocalOperand(x), bb1, bb2)})
	b.SetBlock(bb1, &ir.BasicBlock{
		Statements: []ir.Statement{ir.Assign(r, ir.UseRvalue(one))},
		Terminator: ir.Jump(bb3),
	})
	b.SetBlock(bb2, &ir.BasicBlock{
		Statements: []ir.Statement{ir.Assign(r, ir.UseRvalue(two))},
		Terminator: ir.Jump(bb3),
	})
	b.SetBlock(bb3, &ir.BasicBlock{Terminator: ir.Return(r)})

	fn := b.Finish()
	return fn, x, r, [4]ir.Block{bb0, bb1, bb2, bb3}
}
