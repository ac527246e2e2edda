package amd64

// ModR/M addressing modes used by this encoder.
const (
	ModIndirectNoDisp = 0b00 // [rm], or [RIP+disp32] when rm encodes 101
	ModIndirectDisp32 = 0b10 // [rm+disp32]
	ModDirect         = 0b11 // rm itself
)

// ModRMBuilder assembles a ModR/M byte field by field, with the same
// set-once discipline as RexBuilder.
type ModRMBuilder struct {
	mod, reg, rm          byte
	modSet, regSet, rmSet bool
}

func NewModRM() *ModRMBuilder {
	return &ModRMBuilder{}
}

func (mb *ModRMBuilder) SetMod(mod byte) *ModRMBuilder {
	if mb.modSet {
		panic("amd64: ModRM.mod set twice")
	}
	mb.mod, mb.modSet = mod, true
	return mb
}

func (mb *ModRMBuilder) SetReg(reg byte) *ModRMBuilder {
	if mb.regSet {
		panic("amd64: ModRM.reg set twice")
	}
	mb.reg, mb.regSet = reg&0b111, true
	return mb
}

func (mb *ModRMBuilder) SetRM(rm byte) *ModRMBuilder {
	if mb.rmSet {
		panic("amd64: ModRM.rm set twice")
	}
	mb.rm, mb.rmSet = rm&0b111, true
	return mb
}

func (mb *ModRMBuilder) Finish() byte {
	if !mb.modSet || !mb.regSet || !mb.rmSet {
		panic("amd64: ModRM byte finished with an unset field")
	}
	return mb.mod<<6 | mb.reg<<3 | mb.rm
}
