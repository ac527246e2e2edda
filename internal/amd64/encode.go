package amd64

import "encoding/binary"

// le32/le64 append the little-endian bytes of v to buf.
func le32(buf []byte, v int32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return append(buf, b[:]...)
}

func le64(buf []byte, v int64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	return append(buf, b[:]...)
}

func appendRex(buf []byte, rb *RexBuilder) []byte {
	rex, emit := rb.Finish()
	if emit {
		buf = append(buf, rex)
	}
	return buf
}

// fitsInt32 reports whether v is representable as a signed 32-bit integer.
func fitsInt32(v int64) bool {
	return v >= -(1<<31) && v < 1<<31
}

// encodeXorZero encodes `xor dst, dst`, the zero-immediate LoadImm
// optimisation and the SetIfLess non-aliasing zeroing step.
func encodeXorZero(dst Register) []byte {
	var buf []byte
	buf = appendRex(buf, NewRex().SetW(false).SetR(dst.Extended()).SetX(false).SetB(dst.Extended()))
	buf = append(buf, 0x31)
	buf = append(buf, NewModRM().SetMod(ModDirect).SetReg(dst.Code()).SetRM(dst.Code()).Finish())
	return buf
}

// encodeMovImm32 encodes `mov dst, imm32` (opcode+rd form, no REX.W), used
// for LoadImm{imm fits i32}. SetIfLess's aliasing branch does not use it: its
// zeroing step goes through the imm64 form (see EncodeSetIfLess).
func encodeMovImm32(imm32 int32, dst Register) []byte {
	var buf []byte
	buf = appendRex(buf, NewRex().SetW(false).SetR(false).SetX(false).SetB(dst.Extended()))
	buf = append(buf, 0xB8+dst.Code())
	buf = le32(buf, imm32)
	return buf
}

// encodeMovImm64 encodes the REX.W `mov dst, imm64` form.
func encodeMovImm64(imm64 int64, dst Register) []byte {
	var buf []byte
	buf = appendRex(buf, NewRex().SetW(true).SetR(false).SetX(false).SetB(dst.Extended()))
	buf = append(buf, 0xB8+dst.Code())
	buf = le64(buf, imm64)
	return buf
}

// EncodeLoadImm encodes LoadImm{imm64, dst}. optimize selects between the
// shortest available encoding (xor for zero, imm32 mov when it fits, imm64
// mov otherwise) and the original compiler's unconditional imm64 mov, the
// `OPTIMIZE`-flag distinction the original source draws on this helper.
// SetIfLess's aliasing branch calls this with optimize=false: its zeroing
// mov must never become xor, which would clobber the flags cmp just set.
func EncodeLoadImm(imm64 int64, dst Register, optimize bool) []byte {
	if !optimize {
		return encodeMovImm64(imm64, dst)
	}
	switch {
	case imm64 == 0:
		return encodeXorZero(dst)
	case fitsInt32(imm64):
		return encodeMovImm32(int32(imm64), dst)
	default:
		return encodeMovImm64(imm64, dst)
	}
}

func sibForAddressRegister(r Register) (byte, bool) {
	if !r.IsSpOrR12() {
		return 0, false
	}
	return NewSIB().SetScale(ScaleOne).SetIndex(r.Code()).SetBase(r.Code()).Finish(), true
}

// EncodeLoadAddr encodes LoadAddr{[base+offset] -> dst}.
func EncodeLoadAddr(base Register, offset int32, dst Register) []byte {
	var buf []byte
	sib, needSIB := sibForAddressRegister(base)
	buf = appendRex(buf, NewRex().SetW(true).SetR(dst.Extended()).SetX(needSIB && base.Extended()).SetB(base.Extended()))
	buf = append(buf, 0x8B)
	rm := base.Code()
	if needSIB {
		rm = 0b100
	}
	buf = append(buf, NewModRM().SetMod(ModIndirectDisp32).SetReg(dst.Code()).SetRM(rm).Finish())
	if needSIB {
		buf = append(buf, sib)
	}
	buf = le32(buf, offset)
	return buf
}

// EncodeStore encodes Store{src -> [base+offset]}. Per the golden fixtures,
// ModRM.reg carries the address base and ModRM.rm carries src: the mirror
// image of every other reg/rm addressing mode in this table. Preserve it.
func EncodeStore(src, base Register, offset int32) []byte {
	var buf []byte
	sib, needSIB := sibForAddressRegister(src)
	buf = appendRex(buf, NewRex().SetW(true).SetR(base.Extended()).SetX(needSIB && src.Extended()).SetB(src.Extended()))
	buf = append(buf, 0x89)
	rm := src.Code()
	if needSIB {
		rm = 0b100
	}
	buf = append(buf, NewModRM().SetMod(ModIndirectDisp32).SetReg(base.Code()).SetRM(rm).Finish())
	if needSIB {
		buf = append(buf, sib)
	}
	buf = le32(buf, offset)
	return buf
}

// EncodeMov encodes Mov{src -> dst}.
func EncodeMov(src, dst Register) []byte {
	var buf []byte
	buf = appendRex(buf, NewRex().SetW(true).SetR(src.Extended()).SetX(false).SetB(dst.Extended()))
	buf = append(buf, 0x89)
	buf = append(buf, NewModRM().SetMod(ModDirect).SetReg(src.Code()).SetRM(dst.Code()).Finish())
	return buf
}

// EncodePush encodes Push(reg).
func EncodePush(reg Register) []byte {
	var buf []byte
	buf = appendRex(buf, NewRex().SetW(false).SetR(false).SetX(false).SetB(reg.Extended()))
	buf = append(buf, 0x50+reg.Code())
	return buf
}

// EncodePop encodes Pop(reg).
func EncodePop(reg Register) []byte {
	var buf []byte
	buf = appendRex(buf, NewRex().SetW(false).SetR(false).SetX(false).SetB(reg.Extended()))
	buf = append(buf, 0x58+reg.Code())
	return buf
}

// EncodeAdd encodes Add{src -> dst}.
func EncodeAdd(src, dst Register) []byte {
	var buf []byte
	buf = appendRex(buf, NewRex().SetW(true).SetR(src.Extended()).SetX(false).SetB(dst.Extended()))
	buf = append(buf, 0x01)
	buf = append(buf, NewModRM().SetMod(ModDirect).SetReg(src.Code()).SetRM(dst.Code()).Finish())
	return buf
}

func fitsInt8(v int32) bool {
	return v >= -128 && v <= 127
}

// EncodeAddImm encodes AddImm{imm32, dst}. The 8-bit short form takes
// precedence whenever the immediate fits, including for rax: nasm -O0
// prefers the shorter encoding whenever it is available, reserving the
// dedicated accumulator form for immediates that need the full 32 bits.
func EncodeAddImm(imm32 int32, dst Register) []byte {
	switch {
	case fitsInt8(imm32):
		var buf []byte
		buf = appendRex(buf, NewRex().SetW(true).SetR(false).SetX(false).SetB(dst.Extended()))
		buf = append(buf, 0x83)
		buf = append(buf, NewModRM().SetMod(ModDirect).SetReg(0).SetRM(dst.Code()).Finish())
		buf = append(buf, byte(int8(imm32)))
		return buf
	case dst == Ax:
		var buf []byte
		buf = appendRex(buf, NewRex().SetW(true).SetR(false).SetX(false).SetB(false))
		buf = append(buf, 0x05)
		buf = le32(buf, imm32)
		return buf
	default:
		var buf []byte
		buf = appendRex(buf, NewRex().SetW(true).SetR(false).SetX(false).SetB(dst.Extended()))
		buf = append(buf, 0x81)
		buf = append(buf, NewModRM().SetMod(ModDirect).SetReg(0).SetRM(dst.Code()).Finish())
		buf = le32(buf, imm32)
		return buf
	}
}

// encodeCmp encodes `cmp a, b` as used by SetIfLess: REX.W[.R][.B] 39
// /mod=11 reg=b rm=a.
func encodeCmp(a, b Register) []byte {
	var buf []byte
	buf = appendRex(buf, NewRex().SetW(true).SetR(b.Extended()).SetX(false).SetB(a.Extended()))
	buf = append(buf, 0x39)
	buf = append(buf, NewModRM().SetMod(ModDirect).SetReg(b.Code()).SetRM(a.Code()).Finish())
	return buf
}

// needsRexForLowByte reports whether selecting dst's low byte requires a
// REX prefix (even an otherwise-empty one) to pick SPL/BPL/SIL/DIL instead
// of the legacy AH/CH/DH/BH encoding.
func needsRexForLowByte(dst Register) bool {
	return dst == Sp || dst == Bp || dst == Si || dst == Di
}

func encodeSetl(dst Register) []byte {
	var buf []byte
	rex, emit := NewRex().SetW(false).SetR(false).SetX(false).SetB(dst.Extended()).Finish()
	if emit || needsRexForLowByte(dst) {
		buf = append(buf, rex)
	}
	buf = append(buf, 0x0F, 0x9C)
	buf = append(buf, NewModRM().SetMod(ModDirect).SetReg(0).SetRM(dst.Code()).Finish())
	return buf
}

// EncodeSetIfLess encodes SetIfLess{a, b -> dst}. When dst aliases neither
// operand it is zeroed first with xor (shortest, flag-order irrelevant
// since xor runs before cmp); when dst aliases a or b, cmp must run first
// and the zeroing mov must not touch flags (Open Question 2) — it uses the
// full REX.W imm64 mov form rather than the shorter imm32 one, exactly as
// in the original source, so this is never "simplified" into the xor path.
func EncodeSetIfLess(a, b, dst Register) []byte {
	var buf []byte
	if dst != a && dst != b {
		buf = append(buf, encodeXorZero(dst)...)
		buf = append(buf, encodeCmp(a, b)...)
	} else {
		buf = append(buf, encodeCmp(a, b)...)
		buf = append(buf, EncodeLoadImm(0, dst, false)...)
	}
	buf = append(buf, encodeSetl(dst)...)
	return buf
}

// EncodeReturn encodes Return.
func EncodeReturn() []byte {
	return []byte{0xC3}
}

// EncodeCall encodes Call(reg).
func EncodeCall(reg Register) []byte {
	var buf []byte
	buf = appendRex(buf, NewRex().SetW(false).SetR(false).SetX(false).SetB(reg.Extended()))
	buf = append(buf, 0xFF)
	buf = append(buf, NewModRM().SetMod(ModDirect).SetReg(2).SetRM(reg.Code()).Finish())
	return buf
}

// encodeCmpImmZero encodes `cmp src, 0`, the first half of JumpIfZero.
func encodeCmpImmZero(src Register) []byte {
	var buf []byte
	if src == Ax {
		buf = appendRex(buf, NewRex().SetW(true).SetR(false).SetX(false).SetB(false))
		buf = append(buf, 0x3D)
		buf = le32(buf, 0)
		return buf
	}
	buf = appendRex(buf, NewRex().SetW(true).SetR(false).SetX(false).SetB(src.Extended()))
	buf = append(buf, 0x81)
	buf = append(buf, NewModRM().SetMod(ModDirect).SetReg(7).SetRM(src.Code()).Finish())
	buf = le32(buf, 0)
	return buf
}
