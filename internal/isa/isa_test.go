package isa

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testReg int

func (r testReg) String() string { return fmt.Sprintf("r%d", int(r)) }

func TestInstructionsNewLabelIsUnique(t *testing.T) {
	is := NewInstructions[testReg]()
	a := is.NewLabel()
	b := is.NewLabel()
	assert.NotEqual(t, a, b)
}

func TestInstructionStringsDoNotPanic(t *testing.T) {
	label := Label(0)
	insts := []Instruction[testReg]{
		LoadImm[testReg](10, 0),
		LoadAddr[testReg](1, 8, 0),
		Store[testReg](0, 1, 8),
		Mov[testReg](0, 1),
		Push[testReg](0),
		Pop[testReg](0),
		Add[testReg](0, 1),
		AddImm[testReg](5, 0),
		SetIfLess[testReg](0, 1, 2),
		Jump[testReg](label),
		JumpIfZero[testReg](0, label),
		Return[testReg](),
		Call[testReg](0),
		Nop[testReg](),
	}
	for _, inst := range insts {
		assert.NotEmpty(t, inst.String())
	}
}

func TestInstructionsDumpAttachesLabels(t *testing.T) {
	is := NewInstructions[testReg]()
	label := is.NewLabel()
	inst := Return[testReg]()
	inst.AttachedLabel = &label
	is.Push(inst)

	dump := is.Dump()
	require.Contains(t, dump, "L0: ret")
}
