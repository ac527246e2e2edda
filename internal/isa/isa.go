// Package isa defines the abstract, target-neutral instruction set that MIR
// lowers to and the x86-64 encoder consumes: a small fixed repertoire of
// instruction kinds generic over a register representation, plus a Label
// whose byte offset is resolved only at encode time.
//
// Instruction mirrors the tagged-variant-struct shape used throughout
// internal/ir (Rvalue, Terminator): one Kind tag and the union of every
// variant's fields, which keeps lowering and encoding free of type
// assertions.
package isa

import "fmt"

// Label is an opaque, dense branch-target identifier; its byte offset is
// unknown until the encoder resolves it.
type Label uint32

func (l Label) String() string { return fmt.Sprintf("L%d", uint32(l)) }

// Kind discriminates the Instruction variants.
type Kind int

const (
	KindLoadImm Kind = iota
	KindLoadAddr
	KindStore
	KindMov
	KindPush
	KindPop
	KindAdd
	KindAddImm
	KindSetIfLess
	KindJump
	KindJumpIfZero
	KindReturn
	KindCall
	KindNop
)

// Address is a [base+offset] memory operand.
type Address[R fmt.Stringer] struct {
	Base   R
	Offset int32
}

func (a Address[R]) String() string { return fmt.Sprintf("[%s+%d]", a.Base, a.Offset) }

// Instruction is one abstract-ISA instruction, optionally carrying the Label
// of a block whose first instruction this is.
type Instruction[R fmt.Stringer] struct {
	AttachedLabel *Label
	Kind          Kind

	// LoadImm: Imm64 -> Dst
	Imm64 int64
	// LoadAddr: Mem -> Dst ; Store: Src -> Mem
	Mem Address[R]
	// Mov/Add: Src -> Dst
	Src R
	Dst R
	// Push/Pop/Call
	Reg R
	// AddImm: Imm32 -> Dst
	Imm32 int32
	// SetIfLess: A, B -> Dst
	A, B R
	// Jump/JumpIfZero
	Target Label
}

func LoadImm[R fmt.Stringer](imm64 int64, dst R) Instruction[R] {
	return Instruction[R]{Kind: KindLoadImm, Imm64: imm64, Dst: dst}
}

func LoadAddr[R fmt.Stringer](base R, offset int32, dst R) Instruction[R] {
	return Instruction[R]{Kind: KindLoadAddr, Mem: Address[R]{Base: base, Offset: offset}, Dst: dst}
}

func Store[R fmt.Stringer](src R, base R, offset int32) Instruction[R] {
	return Instruction[R]{Kind: KindStore, Src: src, Mem: Address[R]{Base: base, Offset: offset}}
}

func Mov[R fmt.Stringer](src, dst R) Instruction[R] {
	return Instruction[R]{Kind: KindMov, Src: src, Dst: dst}
}

func Push[R fmt.Stringer](reg R) Instruction[R] {
	return Instruction[R]{Kind: KindPush, Reg: reg}
}

func Pop[R fmt.Stringer](reg R) Instruction[R] {
	return Instruction[R]{Kind: KindPop, Reg: reg}
}

func Add[R fmt.Stringer](src, dst R) Instruction[R] {
	return Instruction[R]{Kind: KindAdd, Src: src, Dst: dst}
}

func AddImm[R fmt.Stringer](imm32 int32, dst R) Instruction[R] {
	return Instruction[R]{Kind: KindAddImm, Imm32: imm32, Dst: dst}
}

func SetIfLess[R fmt.Stringer](a, b, dst R) Instruction[R] {
	return Instruction[R]{Kind: KindSetIfLess, A: a, B: b, Dst: dst}
}

func Jump[R fmt.Stringer](target Label) Instruction[R] {
	return Instruction[R]{Kind: KindJump, Target: target}
}

func JumpIfZero[R fmt.Stringer](src R, target Label) Instruction[R] {
	return Instruction[R]{Kind: KindJumpIfZero, Src: src, Target: target}
}

func Return[R fmt.Stringer]() Instruction[R] {
	return Instruction[R]{Kind: KindReturn}
}

func Call[R fmt.Stringer](reg R) Instruction[R] {
	return Instruction[R]{Kind: KindCall, Reg: reg}
}

func Nop[R fmt.Stringer]() Instruction[R] {
	return Instruction[R]{Kind: KindNop}
}

func (i Instruction[R]) String() string {
	var body string
	switch i.Kind {
	case KindLoadImm:
		body = fmt.Sprintf("loadimm %d, %s", i.Imm64, i.Dst)
	case KindLoadAddr:
		body = fmt.Sprintf("load %s, %s", i.Mem, i.Dst)
	case KindStore:
		body = fmt.Sprintf("store %s, %s", i.Src, i.Mem)
	case KindMov:
		body = fmt.Sprintf("mov %s, %s", i.Src, i.Dst)
	case KindPush:
		body = fmt.Sprintf("push %s", i.Reg)
	case KindPop:
		body = fmt.Sprintf("pop %s", i.Reg)
	case KindAdd:
		body = fmt.Sprintf("add %s, %s", i.Src, i.Dst)
	case KindAddImm:
		body = fmt.Sprintf("add %d, %s", i.Imm32, i.Dst)
	case KindSetIfLess:
		body = fmt.Sprintf("setl %s, %s, %s", i.A, i.B, i.Dst)
	case KindJump:
		body = fmt.Sprintf("jmp %s", i.Target)
	case KindJumpIfZero:
		body = fmt.Sprintf("jz %s, %s", i.Src, i.Target)
	case KindReturn:
		body = "ret"
	case KindCall:
		body = fmt.Sprintf("call %s", i.Reg)
	case KindNop:
		body = "nop"
	default:
		body = "<bad instruction>"
	}
	if i.AttachedLabel != nil {
		return fmt.Sprintf("%s: %s", *i.AttachedLabel, body)
	}
	return body
}
