// Package examples bundles a small set of named Function fixtures for the
// pijamac CLI to operate on. There is no front-end parser in this
// repository's scope, so compile/dump/graphviz all work from this registry
// instead of source text.
package examples

import "github.com/pijama-lang/pijamac/internal/ir"

// identity returns its single argument unchanged. It has no statements, so
// it lowers to a lone Return, the simplest possible lowering.
func identity() *ir.Function {
	b := ir.NewBuilder(1)
	arg := b.AddLocal(ir.TyInt)

	entry := b.AddBlock()
	b.SetBlock(entry, &ir.BasicBlock{
		Terminator: ir.Return(arg),
	})

	return b.Finish()
}

// constant ignores its (absent) arguments and always returns the literal
// 10: LoadImm + Return.
func constant() *ir.Function {
	b := ir.NewBuilder(0)
	result := b.AddLocal(ir.TyInt)

	entry := b.AddBlock()
	b.SetBlock(entry, &ir.BasicBlock{
		Statements: []ir.Statement{
			ir.Assign(result, ir.UseRvalue(ir.ConstantOperand(ir.Literal{Data: 10, Ty: ir.TyInt}))),
		},
		Terminator: ir.Return(result),
	})

	return b.Finish()
}

// double computes 2*n by counting i up from 0 to n, adding 2 to an
// accumulator on every iteration: the loop shape a loop-carried local
// (rather than a phi) is lowered through.
func double() *ir.Function {
	b := ir.NewBuilder(1)
	n := b.AddLocal(ir.TyInt)
	i := b.AddLocal(ir.TyInt)
	t := b.AddLocal(ir.TyInt)
	cond := b.AddLocal(ir.TyBool)

	entry := b.AddBlock()
	header := b.AddBlock()
	body := b.AddBlock()
	exit := b.AddBlock()

	b.SetBlock(entry, &ir.BasicBlock{
		Statements: []ir.Statement{
			ir.Assign(i, ir.UseRvalue(ir.ConstantOperand(ir.Literal{Data: 0, Ty: ir.TyInt}))),
			ir.Assign(t, ir.UseRvalue(ir.ConstantOperand(ir.Literal{Data: 0, Ty: ir.TyInt}))),
		},
		Terminator: ir.Jump(header),
	})

	b.SetBlock(header, &ir.BasicBlock{
		Statements: []ir.Statement{
			ir.Assign(cond, ir.BinaryOpRvalue(ir.OpLt, ir.LocalOperand(i), ir.LocalOperand(n))),
		},
		Terminator: ir.JumpIf(ir.LocalOperand(cond), body, exit),
	})

	b.SetBlock(body, &ir.BasicBlock{
		Statements: []ir.Statement{
			ir.Assign(t, ir.BinaryOpRvalue(ir.OpAdd, ir.LocalOperand(t), ir.ConstantOperand(ir.Literal{Data: 2, Ty: ir.TyInt}))),
			ir.Assign(i, ir.BinaryOpRvalue(ir.OpAdd, ir.LocalOperand(i), ir.ConstantOperand(ir.Literal{Data: 1, Ty: ir.TyInt}))),
		},
		Terminator: ir.Jump(header),
	})

	b.SetBlock(exit, &ir.BasicBlock{
		Terminator: ir.Return(t),
	})

	return b.Finish()
}

// deadcode computes an unused value (u = (t = 0) + 1) before returning the
// unrelated literal 5, giving internal/dce something to erase.
func deadcode() *ir.Function {
	b := ir.NewBuilder(0)
	t := b.AddLocal(ir.TyInt)
	u := b.AddLocal(ir.TyInt)
	result := b.AddLocal(ir.TyInt)

	entry := b.AddBlock()
	b.SetBlock(entry, &ir.BasicBlock{
		Statements: []ir.Statement{
			ir.Assign(t, ir.UseRvalue(ir.ConstantOperand(ir.Literal{Data: 0, Ty: ir.TyInt}))),
			ir.Assign(u, ir.BinaryOpRvalue(ir.OpAdd, ir.LocalOperand(t), ir.ConstantOperand(ir.Literal{Data: 1, Ty: ir.TyInt}))),
			ir.Assign(result, ir.UseRvalue(ir.ConstantOperand(ir.Literal{Data: 5, Ty: ir.TyInt}))),
		},
		Terminator: ir.Return(result),
	})

	return b.Finish()
}

// registry maps each example's name to its builder, in the order Names
// reports them.
var registry = []struct {
	name string
	fn   func() *ir.Function
}{
	{"identity", identity},
	{"constant", constant},
	{"double", double},
	{"deadcode", deadcode},
}

// Names lists every registered example, in a stable order.
func Names() []string {
	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.name
	}
	return names
}

// Get looks up an example by name.
func Get(name string) (*ir.Function, bool) {
	for _, e := range registry {
		if e.name == name {
			return e.fn(), true
		}
	}
	return nil, false
}
