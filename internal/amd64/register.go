// Package amd64 is the byte-exact x86-64 encoder: REX/ModRM/SIB builders
// with a field-set-once discipline, a fixed opcode table, and a two-pass
// label patch table. It consumes an isa.Instructions[Register] value
// produced by internal/lower (after internal/peephole has run) and emits a
// raw machine-code byte stream.
package amd64

import "fmt"

// Register is one of the 16 general-purpose x86-64 registers. Its value is
// the register's full encoding (0-15); Code returns the low 3 bits placed in
// ModRM/SIB/opcode+rd fields, and Extended reports whether a REX bit must
// select the upper 8.
type Register int

const (
	Ax Register = iota
	Cx
	Dx
	Bx
	Sp
	Bp
	Si
	Di
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
)

var registerNames = [...]string{
	"rax", "rcx", "rdx", "rbx", "rsp", "rbp", "rsi", "rdi",
	"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
}

func (r Register) String() string {
	if int(r) < 0 || int(r) >= len(registerNames) {
		return fmt.Sprintf("Register(%d)", int(r))
	}
	return registerNames[r]
}

// Code returns the 3-bit field written into ModRM.reg/rm, SIB.base/index, or
// added to a +rd opcode. The REX.R/X/B bit (Extended) supplies the 4th bit.
func (r Register) Code() uint8 {
	return uint8(r) & 0b111
}

// Extended reports whether r is one of R8-R15, requiring a REX bit to select
// it in whichever field it occupies.
func (r Register) Extended() bool {
	return r >= R8
}

// IsSpOrR12 reports whether r's 3-bit code collides with the SIB escape
// value (0b100): both rsp and r12 do, and addressing through either forces
// an SIB byte.
func (r Register) IsSpOrR12() bool {
	return r.Code() == Sp.Code()
}
