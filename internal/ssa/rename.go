package ssa

import (
	"fmt"

	"github.com/pijama-lang/pijamac/internal/domfrontier"
	"github.com/pijama-lang/pijamac/internal/ir"
)

// renamer carries the one piece of mutable state Cytron's renaming pass
// needs: for every pre-SSA local, the stack of SSA names currently visible,
// innermost (most recently pushed, by the dominator-tree branch being
// walked) on top.
type renamer struct {
	fn     *ir.Function
	tree   *domfrontier.Tree
	stacks map[ir.Local][]ir.Local
}

// renameFrame is one stack frame of the iterative dominator-tree walk:
// defined records which original locals this block pushed, so run can pop
// them back off when every dominator-tree child has been visited.
type renameFrame struct {
	block    ir.Block
	childIdx int
	defined  []ir.Local
}

// run walks fn's dominator tree from root, renaming every definition to a
// fresh Local and every use to the definition that reaches it. Rewritten
// from Cytron's recursive formulation to an explicit stack: a dominator tree
// built from a generated program can be arbitrarily deep.
func (r *renamer) run(root ir.Block) {
	stack := []*renameFrame{r.enter(root)}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		children := r.tree.Children[top.block]
		if top.childIdx < len(children) {
			child := children[top.childIdx]
			top.childIdx++
			stack = append(stack, r.enter(child))
			continue
		}
		for _, orig := range top.defined {
			s := r.stacks[orig]
			r.stacks[orig] = s[:len(s)-1]
		}
		stack = stack[:len(stack)-1]
	}
}

// enter renames block's own statements and terminator, fills in the phi
// operand that each of block's successors reserved for the edge from block,
// and returns the frame run will use to pop block's definitions once its
// dominator-tree subtree is done.
func (r *renamer) enter(block ir.Block) *renameFrame {
	frame := &renameFrame{block: block}

	if block != r.fn.Entry && block != r.fn.Exit {
		bb := r.fn.Blocks.Get(block)
		for i := range bb.Statements {
			stmt := &bb.Statements[i]
			if stmt.Kind != ir.StatementKindAssign {
				continue
			}
			if stmt.Rhs.Kind != ir.RvalueKindPhi {
				r.renameRvalue(&stmt.Rhs)
			}
			orig := stmt.Lhs
			fresh := r.fn.Locals.Push(r.fn.Locals.Get(orig))
			stmt.Lhs = fresh
			r.stacks[orig] = append(r.stacks[orig], fresh)
			frame.defined = append(frame.defined, orig)
		}
		r.renameTerminator(&bb.Terminator)
	}

	for _, succ := range r.fn.Succs.Get(block) {
		if succ == r.fn.Exit {
			continue
		}
		sbb := r.fn.Blocks.Get(succ)
		for i := range sbb.Statements {
			stmt := &sbb.Statements[i]
			if stmt.Kind != ir.StatementKindAssign || stmt.Rhs.Kind != ir.RvalueKindPhi {
				continue
			}
			for j := range stmt.Rhs.Phi {
				edge := &stmt.Rhs.Phi[j]
				if edge.Pred != block {
					continue
				}
				// edge.Local still holds the pre-SSA placeholder until this,
				// its one and only fill, happens.
				edge.Local = r.top(edge.Local)
			}
		}
	}

	return frame
}

func (r *renamer) renameOperand(op *ir.Operand) {
	if op.Kind == ir.OperandKindLocal {
		op.Local = r.top(op.Local)
	}
}

func (r *renamer) renameRvalue(rv *ir.Rvalue) {
	switch rv.Kind {
	case ir.RvalueKindUse:
		r.renameOperand(&rv.Operand)
	case ir.RvalueKindBinaryOp:
		r.renameOperand(&rv.Lhs)
		r.renameOperand(&rv.Rhs)
	}
}

func (r *renamer) renameTerminator(term *ir.Terminator) {
	switch term.Kind {
	case ir.TerminatorKindJumpIf:
		r.renameOperand(&term.Cond)
	case ir.TerminatorKindReturn:
		term.Ret = r.top(term.Ret)
	}
}

func (r *renamer) top(orig ir.Local) ir.Local {
	stack := r.stacks[orig]
	if len(stack) == 0 {
		panic(fmt.Sprintf("ssa: %s used before any reaching definition", orig))
	}
	return stack[len(stack)-1]
}
