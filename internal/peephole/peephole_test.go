package peephole

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pijama-lang/pijamac/internal/amd64"
	"github.com/pijama-lang/pijamac/internal/isa"
)

type testReg int

func (r testReg) String() string { return fmt.Sprintf("r%d", int(r)) }

func TestRunErasesJumpToNextLabel(t *testing.T) {
	is := isa.NewInstructions[testReg]()
	label := is.NewLabel()
	is.Push(isa.Jump[testReg](label))
	ret := isa.Return[testReg]()
	ret.AttachedLabel = &label
	is.Push(ret)

	Run[testReg](is)

	assert.Equal(t, isa.KindNop, is.Items[0].Kind)
	assert.Equal(t, isa.KindReturn, is.Items[1].Kind)
}

func TestRunLeavesJumpToDistantLabelAlone(t *testing.T) {
	is := isa.NewInstructions[testReg]()
	label := is.NewLabel()
	is.Push(isa.Jump[testReg](label))
	is.Push(isa.Return[testReg]())
	ret := isa.Return[testReg]()
	ret.AttachedLabel = &label
	is.Push(ret)

	Run[testReg](is)

	assert.Equal(t, isa.KindJump, is.Items[0].Kind)
}

func TestRunLeavesJumpToOtherInstructionsLabelAlone(t *testing.T) {
	is := isa.NewInstructions[testReg]()
	target := is.NewLabel()
	other := is.NewLabel()
	is.Push(isa.Jump[testReg](target))
	ret := isa.Return[testReg]()
	ret.AttachedLabel = &other
	is.Push(ret)

	Run[testReg](is)

	assert.Equal(t, isa.KindJump, is.Items[0].Kind)
}

func TestRunIsIdempotent(t *testing.T) {
	is := isa.NewInstructions[testReg]()
	label := is.NewLabel()
	is.Push(isa.Jump[testReg](label))
	ret := isa.Return[testReg]()
	ret.AttachedLabel = &label
	is.Push(ret)

	Run[testReg](is)
	once := append([]isa.Instruction[testReg]{}, is.Items...)

	Run[testReg](is)
	assert.Equal(t, once, is.Items)
}

// Scenario 6: [Jump(L), @L: Ret] optimizes to Nop + Ret, which assembles to
// exactly the single ret byte.
func TestRunScenarioJumpToNextEncodesToBareRet(t *testing.T) {
	is := isa.NewInstructions[amd64.Register]()
	label := is.NewLabel()
	is.Push(isa.Jump[amd64.Register](label))
	ret := isa.Return[amd64.Register]()
	ret.AttachedLabel = &label
	is.Push(ret)

	Run[amd64.Register](is)

	got, err := amd64.Assemble(is)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xC3}, got)
}
