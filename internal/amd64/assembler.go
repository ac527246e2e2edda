package amd64

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/pijama-lang/pijamac/internal/isa"
)

// MissingLabelError is raised by Finish when a patch refers to a label that
// was never attached to an emitted instruction.
type MissingLabelError struct {
	Label isa.Label
}

func (e *MissingLabelError) Error() string {
	return fmt.Sprintf("amd64: label %s was never attached to an instruction", e.Label)
}

type patch struct {
	label isa.Label
	start int
}

// Config carries the one knob spec.md leaves as an implementation choice at
// the encoder boundary: whether LoadImm picks the shortest available
// encoding (xor/imm32/imm64) or always emits the original compiler's
// unconditional imm64 mov. DefaultConfig enables the optimisation.
type Config struct {
	Optimize bool
}

// DefaultConfig returns the encoder behavior every Assembler had before
// Config existed: LoadImm optimised.
func DefaultConfig() Config {
	return Config{Optimize: true}
}

// Assembler is the two-pass x86-64 encoder: it streams bytes as each
// instruction is encoded and records where every label landed, then
// resolves every jump's rel32 slot in Finish.
type Assembler struct {
	cfg            Config
	buf            []byte
	labelLocations map[isa.Label]int
	patches        []patch
}

func NewAssembler() *Assembler {
	return NewAssemblerWithConfig(DefaultConfig())
}

// NewAssemblerWithConfig is NewAssembler with explicit encoder behavior.
func NewAssemblerWithConfig(cfg Config) *Assembler {
	return &Assembler{cfg: cfg, labelLocations: make(map[isa.Label]int)}
}

// Assemble encodes every instruction in instructions, in order, and returns the
// resulting machine code. It is the package-level convenience wrapping
// NewAssembler + AssembleAll + Finish, matching the "assemble" driver entry
// point.
func Assemble(instructions *isa.Instructions[Register]) ([]byte, error) {
	asm := NewAssembler()
	asm.AssembleAll(instructions)
	return asm.Finish()
}

// AssembleWithConfig is Assemble with explicit encoder behavior.
func AssembleWithConfig(instructions *isa.Instructions[Register], cfg Config) ([]byte, error) {
	asm := NewAssemblerWithConfig(cfg)
	asm.AssembleAll(instructions)
	return asm.Finish()
}

// AssembleAll encodes every instruction in is, in order.
func (a *Assembler) AssembleAll(is *isa.Instructions[Register]) {
	for _, inst := range is.Items {
		a.assembleOne(inst)
	}
}

func (a *Assembler) assembleOne(inst isa.Instruction[Register]) {
	if inst.AttachedLabel != nil {
		a.labelLocations[*inst.AttachedLabel] = len(a.buf)
	}

	switch inst.Kind {
	case isa.KindLoadImm:
		a.buf = append(a.buf, EncodeLoadImm(inst.Imm64, inst.Dst, a.cfg.Optimize)...)
	case isa.KindLoadAddr:
		a.buf = append(a.buf, EncodeLoadAddr(inst.Mem.Base, inst.Mem.Offset, inst.Dst)...)
	case isa.KindStore:
		a.buf = append(a.buf, EncodeStore(inst.Src, inst.Mem.Base, inst.Mem.Offset)...)
	case isa.KindMov:
		a.buf = append(a.buf, EncodeMov(inst.Src, inst.Dst)...)
	case isa.KindPush:
		a.buf = append(a.buf, EncodePush(inst.Reg)...)
	case isa.KindPop:
		a.buf = append(a.buf, EncodePop(inst.Reg)...)
	case isa.KindAdd:
		a.buf = append(a.buf, EncodeAdd(inst.Src, inst.Dst)...)
	case isa.KindAddImm:
		a.buf = append(a.buf, EncodeAddImm(inst.Imm32, inst.Dst)...)
	case isa.KindSetIfLess:
		a.buf = append(a.buf, EncodeSetIfLess(inst.A, inst.B, inst.Dst)...)
	case isa.KindJump:
		a.emitJump(inst.Target)
	case isa.KindJumpIfZero:
		a.emitJumpIfZero(inst.Src, inst.Target)
	case isa.KindReturn:
		a.buf = append(a.buf, EncodeReturn()...)
	case isa.KindCall:
		a.buf = append(a.buf, EncodeCall(inst.Reg)...)
	case isa.KindNop:
		// nothing emitted
	default:
		panic(fmt.Sprintf("amd64: unhandled instruction kind %d", inst.Kind))
	}
}

func (a *Assembler) addPatch(label isa.Label) {
	a.patches = append(a.patches, patch{label: label, start: len(a.buf)})
	a.buf = append(a.buf, 0, 0, 0, 0)
}

func (a *Assembler) emitJump(target isa.Label) {
	a.buf = append(a.buf, 0xE9)
	a.addPatch(target)
}

func (a *Assembler) emitJumpIfZero(src Register, target isa.Label) {
	a.buf = append(a.buf, encodeCmpImmZero(src)...)
	a.buf = append(a.buf, 0x0F, 0x84)
	a.addPatch(target)
}

// Finish resolves every patch against its label's recorded location and
// returns the final byte stream. A patch referencing a label that was
// never attached to an instruction yields a MissingLabelError.
func (a *Assembler) Finish() ([]byte, error) {
	for _, p := range a.patches {
		location, ok := a.labelLocations[p.label]
		if !ok {
			return nil, &MissingLabelError{Label: p.label}
		}
		rel := int64(location) - int64(p.start+4)
		if rel < math.MinInt32 || rel > math.MaxInt32 {
			panic(fmt.Sprintf("amd64: jump displacement %d does not fit in rel32", rel))
		}
		binary.LittleEndian.PutUint32(a.buf[p.start:p.start+4], uint32(int32(rel)))
	}
	return a.buf, nil
}
