package amd64

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pijama-lang/pijamac/internal/isa"
)

func rel32At(buf []byte, start int) int32 {
	return int32(binary.LittleEndian.Uint32(buf[start : start+4]))
}

func TestAssembleScenarioIdentityMovReturn(t *testing.T) {
	is := isa.NewInstructions[Register]()
	is.Push(isa.Mov[Register](Di, Ax))
	is.Push(isa.Return[Register]())

	got, err := Assemble(is)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x48, 0x89, 0xF8, 0xC3}, got)
}

func TestAssembleScenarioConstantLoadImmReturn(t *testing.T) {
	is := isa.NewInstructions[Register]()
	is.Push(isa.LoadImm[Register](10, Ax))
	is.Push(isa.Return[Register]())

	got, err := Assemble(is)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xB8, 0x0A, 0x00, 0x00, 0x00, 0xC3}, got)
}

func TestAssembleWithConfigOptimizeFalseKeepsFullImm64Mov(t *testing.T) {
	is := isa.NewInstructions[Register]()
	is.Push(isa.LoadImm[Register](0, Ax))
	is.Push(isa.Return[Register]())

	got, err := AssembleWithConfig(is, Config{Optimize: false})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x48, 0xB8, 0, 0, 0, 0, 0, 0, 0, 0, 0xC3}, got)
}

func TestAssembleMissingLabelError(t *testing.T) {
	is := isa.NewInstructions[Register]()
	missing := is.NewLabel()
	is.Push(isa.Jump[Register](missing))

	_, err := Assemble(is)
	require.Error(t, err)
	var missingErr *MissingLabelError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, missing, missingErr.Label)
}

// Each case places a Jump before, at, or after the label it targets, and
// checks the patched rel32 equals label_offset - (patch_start+4).
func TestPatchCorrectnessJump(t *testing.T) {
	cases := []struct {
		name        string
		buildTarget func(is *isa.Instructions[Register]) isa.Label
	}{
		{"label before jump", func(is *isa.Instructions[Register]) isa.Label {
			label := is.NewLabel()
			ret := isa.Return[Register]()
			ret.AttachedLabel = &label
			is.Push(ret)
			is.Push(isa.Jump[Register](label))
			return label
		}},
		{"label after jump", func(is *isa.Instructions[Register]) isa.Label {
			label := is.NewLabel()
			is.Push(isa.Jump[Register](label))
			ret := isa.Return[Register]()
			ret.AttachedLabel = &label
			is.Push(ret)
			return label
		}},
		{"jump targets its own attached label", func(is *isa.Instructions[Register]) isa.Label {
			label := is.NewLabel()
			jmp := isa.Jump[Register](label)
			jmp.AttachedLabel = &label
			is.Push(jmp)
			return label
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			is := isa.NewInstructions[Register]()
			label := c.buildTarget(is)

			asm := NewAssembler()
			asm.AssembleAll(is)

			var patchStart int = -1
			for _, p := range asm.patches {
				if p.label == label {
					patchStart = p.start
				}
			}
			require.NotEqual(t, -1, patchStart)

			buf, err := asm.Finish()
			require.NoError(t, err)

			labelLoc := asm.labelLocations[label]
			want := int32(labelLoc - (patchStart + 4))
			assert.Equal(t, want, rel32At(buf, patchStart))
		})
	}
}

func TestPatchCorrectnessJumpIfZero(t *testing.T) {
	regs := []Register{Ax, Cx, Dx, Bx, Sp, Bp, Si, Di, R8, R9, R10, R11, R12, R13, R14, R15}
	for _, r := range regs {
		is := isa.NewInstructions[Register]()
		target := is.NewLabel()
		is.Push(isa.JumpIfZero[Register](r, target))
		ret := isa.Return[Register]()
		ret.AttachedLabel = &target
		is.Push(ret)

		asm := NewAssembler()
		asm.AssembleAll(is)
		buf, err := asm.Finish()
		require.NoError(t, err)

		require.Len(t, asm.patches, 1)
		patchStart := asm.patches[0].start
		labelLoc := asm.labelLocations[target]
		want := int32(labelLoc - (patchStart + 4))
		assert.Equal(t, want, rel32At(buf, patchStart))
	}
}

func TestAssembleNopEmitsNothing(t *testing.T) {
	is := isa.NewInstructions[Register]()
	is.Push(isa.Nop[Register]())
	is.Push(isa.Return[Register]())

	got, err := Assemble(is)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xC3}, got)
}
