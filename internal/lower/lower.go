// Package lower translates a Function's statements and terminators into the
// abstract instruction set (internal/isa), entirely register-allocation
// free: the fixed five-register window below is hard-assigned to locals in
// declaration order, a stand-in for a real allocator.
//
// Lowering is operand-pattern-directed, grounded statement-for-statement on
// the original compiler's lowering pass: every local keeps exactly one
// register for its whole lifetime, so loop-carried values are mutated in
// place rather than merged through phi nodes. A Function carrying Phi
// assignments (the direct output of internal/ssa) is therefore out of scope
// for this pass; SSA construction and dead-code elimination are exercised as
// independent analyses rather than chained in front of the code generator,
// matching the lowering pass retrieved from the original implementation,
// which has no case for Rvalue::Phi at all.
package lower

import (
	"fmt"

	"github.com/pijama-lang/pijamac/internal/amd64"
	"github.com/pijama-lang/pijamac/internal/ir"
	"github.com/pijama-lang/pijamac/internal/isa"
)

// AvailableRegisters is the default window locals are hard-assigned to, in
// declaration order: first the parameters, then every other local.
var AvailableRegisters = [5]amd64.Register{amd64.Ax, amd64.Di, amd64.Si, amd64.Dx, amd64.Cx}

// Config carries the one knob spec.md leaves as an implementation choice:
// which physical registers the hard-assignment window draws from, and in
// what order. DefaultConfig reproduces AvailableRegisters.
type Config struct {
	Registers [5]amd64.Register
}

// DefaultConfig returns the register window every lowering used before
// Config existed.
func DefaultConfig() Config {
	return Config{Registers: AvailableRegisters}
}

type asmOperandKind int

const (
	operandReg asmOperandKind = iota
	operandImm
)

type asmOperand struct {
	kind asmOperandKind
	reg  amd64.Register
	imm  int32
}

type ctx struct {
	localRegisters map[ir.Local]amd64.Register
	blockLabels    map[ir.Block]isa.Label
	instructions   *isa.Instructions[amd64.Register]
}

// Lower produces the abstract instruction list for fn using DefaultConfig's
// register window. It panics if fn has more than 3 parameters or more than
// 5 locals: lowering hard-assigns every local to one of the window's
// registers and has no fallback.
func Lower(fn *ir.Function) *isa.Instructions[amd64.Register] {
	return LowerWithConfig(fn, DefaultConfig())
}

// LowerWithConfig is Lower with an explicit register window.
func LowerWithConfig(fn *ir.Function, cfg Config) *isa.Instructions[amd64.Register] {
	if fn.Arity > 3 {
		panic(fmt.Sprintf("lower: cannot lower function with %d arguments", fn.Arity))
	}
	if fn.Locals.Len() > len(cfg.Registers) {
		panic(fmt.Sprintf("lower: cannot lower function with %d locals", fn.Locals.Len()))
	}

	localRegisters := make(map[ir.Local]amd64.Register, fn.Locals.Len())
	for i, local := range fn.Locals.Keys() {
		localRegisters[local] = cfg.Registers[i]
	}

	instructions := isa.NewInstructions[amd64.Register]()
	blockLabels := make(map[ir.Block]isa.Label, fn.Blocks.Len())
	for _, block := range fn.Blocks.Keys() {
		blockLabels[block] = instructions.NewLabel()
	}

	c := &ctx{localRegisters: localRegisters, blockLabels: blockLabels, instructions: instructions}
	for _, e := range fn.Blocks.Entries() {
		c.lowerBlock(e.Key, *e.Value)
	}
	return instructions
}

func (c *ctx) lowerOperand(operand ir.Operand) asmOperand {
	if operand.Kind == ir.OperandKindLocal {
		return asmOperand{kind: operandReg, reg: c.localRegisters[operand.Local]}
	}
	return asmOperand{kind: operandImm, imm: int32(operand.Literal.Data)}
}

func (c *ctx) push(inst isa.Instruction[amd64.Register]) {
	c.instructions.Push(inst)
}

func (c *ctx) lowerTerminator(term ir.Terminator) {
	switch term.Kind {
	case ir.TerminatorKindJump:
		c.push(isa.Jump[amd64.Register](c.blockLabels[term.Target]))
	case ir.TerminatorKindReturn:
		c.push(isa.Return[amd64.Register]())
	case ir.TerminatorKindJumpIf:
		cond := c.lowerOperand(term.Cond)
		switch cond.kind {
		case operandReg:
			c.push(isa.JumpIfZero[amd64.Register](cond.reg, c.blockLabels[term.Else]))
			c.push(isa.Jump[amd64.Register](c.blockLabels[term.Then]))
		case operandImm:
			target := term.Then
			if cond.imm == 0 {
				target = term.Else
			}
			c.push(isa.Jump[amd64.Register](c.blockLabels[target]))
		}
	default:
		panic(fmt.Sprintf("lower: unhandled terminator kind %d", term.Kind))
	}
}

func (c *ctx) lowerStatement(stmt ir.Statement) {
	if stmt.Kind != ir.StatementKindAssign {
		return
	}
	lhs := c.localRegisters[stmt.Lhs]
	rv := stmt.Rhs

	switch rv.Kind {
	case ir.RvalueKindUse:
		c.lowerUse(lhs, rv.Operand)
	case ir.RvalueKindBinaryOp:
		c.lowerBinaryOp(lhs, rv.Op, rv.Lhs, rv.Rhs)
	case ir.RvalueKindPhi:
		panic("lower: a Phi survived to lowering; this driver lowers pre-SSA MIR only")
	}
}

func (c *ctx) lowerUse(lhs amd64.Register, operand ir.Operand) {
	switch rhs := c.lowerOperand(operand); rhs.kind {
	case operandReg:
		c.push(isa.Mov[amd64.Register](rhs.reg, lhs))
	case operandImm:
		c.push(isa.LoadImm[amd64.Register](int64(rhs.imm), lhs))
	}
}

func (c *ctx) lowerBinaryOp(lhs amd64.Register, op ir.BinOp, lhsOperand, rhsOperand ir.Operand) {
	lhsOp := c.lowerOperand(lhsOperand)
	rhsOp := c.lowerOperand(rhsOperand)

	switch {
	case lhsOp.kind == operandReg && rhsOp.kind == operandReg:
		c.lowerRegReg(lhs, op, lhsOp.reg, rhsOp.reg)
	case lhsOp.kind == operandReg && rhsOp.kind == operandImm:
		c.lowerRegImm(lhs, op, lhsOp.reg, rhsOp.imm)
	case lhsOp.kind == operandImm && rhsOp.kind == operandReg:
		c.lowerImmReg(lhs, op, lhsOp.imm, rhsOp.reg)
	default:
		c.lowerImmImm(lhs, op, lhsOp.imm, rhsOp.imm)
	}
}

func (c *ctx) lowerRegReg(lhs amd64.Register, op ir.BinOp, lhsOp, rhsOp amd64.Register) {
	switch op {
	case ir.OpAdd:
		switch {
		case lhs == lhsOp:
			c.push(isa.Add[amd64.Register](rhsOp, lhs))
		case lhs == rhsOp:
			c.push(isa.Add[amd64.Register](lhsOp, lhs))
		default:
			c.push(isa.Mov[amd64.Register](lhsOp, lhs))
			c.push(isa.Add[amd64.Register](rhsOp, lhs))
		}
	case ir.OpLt:
		c.push(isa.SetIfLess[amd64.Register](lhsOp, rhsOp, lhs))
	}
}

func (c *ctx) lowerRegImm(lhs amd64.Register, op ir.BinOp, lhsOp amd64.Register, rhsOp int32) {
	switch op {
	case ir.OpAdd:
		if lhs == lhsOp {
			c.push(isa.AddImm[amd64.Register](rhsOp, lhs))
		} else {
			c.push(isa.Mov[amd64.Register](lhsOp, lhs))
			c.push(isa.AddImm[amd64.Register](rhsOp, lhs))
		}
	case ir.OpLt:
		panic("lower: Lt with an immediate right-hand operand is unimplemented")
	}
}

func (c *ctx) lowerImmReg(lhs amd64.Register, op ir.BinOp, lhsOp int32, rhsOp amd64.Register) {
	switch op {
	case ir.OpAdd:
		if lhs == rhsOp {
			c.push(isa.AddImm[amd64.Register](lhsOp, lhs))
		} else {
			c.push(isa.LoadImm[amd64.Register](int64(lhsOp), lhs))
			c.push(isa.Add[amd64.Register](rhsOp, lhs))
		}
	case ir.OpLt:
		panic("lower: Lt with an immediate left-hand operand is unimplemented")
	}
}

func (c *ctx) lowerImmImm(lhs amd64.Register, op ir.BinOp, lhsOp, rhsOp int32) {
	switch op {
	case ir.OpAdd:
		c.push(isa.LoadImm[amd64.Register](int64(lhsOp), lhs))
		c.push(isa.AddImm[amd64.Register](rhsOp, lhs))
	case ir.OpLt:
		imm := int64(0)
		if lhsOp < rhsOp {
			imm = 1
		}
		c.push(isa.LoadImm[amd64.Register](imm, lhs))
	}
}

// lowerBlock lowers bb's statements and terminator, then attaches bb's label
// to the first instruction it emitted (always at least the terminator's).
func (c *ctx) lowerBlock(block ir.Block, bb *ir.BasicBlock) {
	index := c.instructions.Len()

	for _, stmt := range bb.Statements {
		c.lowerStatement(stmt)
	}
	c.lowerTerminator(bb.Terminator)

	label := c.blockLabels[block]
	if index < c.instructions.Len() {
		c.instructions.Items[index].AttachedLabel = &label
	}
}
