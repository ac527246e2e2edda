// Package objfile wraps assembled machine code and symbol metadata into the
// minimal ELF64 relocatable object an external linker/assembler driver
// expects: one PROGBITS .text section holding the code, one GLOBAL FUNC
// symbol per compiled function. It is the thinnest adapter that satisfies
// that boundary, not a general-purpose ELF writer.
package objfile

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
)

// ObjectWriter accepts one named, already-encoded function body at a time.
type ObjectWriter interface {
	AddTextSymbol(name string, code []byte)
}

const symbolAlignment = 16

type symbol struct {
	name   string
	offset uint64
	size   uint64
}

// Writer accumulates text symbols and renders them into a single ELF64
// little-endian relocatable object on Bytes.
type Writer struct {
	text    []byte
	symbols []symbol
}

func NewWriter() *Writer {
	return &Writer{}
}

// AddTextSymbol appends code to the .text section, padding to
// symbolAlignment first, and records a GLOBAL/FUNC/default-visibility symbol
// at its offset.
func (w *Writer) AddTextSymbol(name string, code []byte) {
	for len(w.text)%symbolAlignment != 0 {
		w.text = append(w.text, 0)
	}
	offset := uint64(len(w.text))
	w.text = append(w.text, code...)
	w.symbols = append(w.symbols, symbol{name: name, offset: offset, size: uint64(len(code))})
}

// The section header indices, in their fixed order: NULL, .text, .shstrtab,
// .symtab, .strtab. Index 0 is reserved by the ELF spec for the null section.
const (
	secNull = iota
	secText
	secShstrtab
	secSymtab
	secStrtab
	secCount
)

// Bytes renders the accumulated symbols into a full ELF64 object file image.
func (w *Writer) Bytes() []byte {
	shstrtab := newStrtab()
	shstrtab.add("")
	textNameIdx := shstrtab.add(".text")
	shstrtabNameIdx := shstrtab.add(".shstrtab")
	symtabNameIdx := shstrtab.add(".symtab")
	strtabNameIdx := shstrtab.add(".strtab")

	strtab := newStrtab()
	strtab.add("")

	var symtab bytes.Buffer
	// Symbol 0 is always the null symbol, per the ELF spec.
	binary.Write(&symtab, binary.LittleEndian, elf.Sym64{})
	for _, sym := range w.symbols {
		nameIdx := strtab.add(sym.name)
		binary.Write(&symtab, binary.LittleEndian, elf.Sym64{
			Name:  nameIdx,
			Info:  elf.ST_INFO(elf.STB_GLOBAL, elf.STT_FUNC),
			Other: byte(elf.STV_DEFAULT),
			Shndx: secText,
			Value: sym.offset,
			Size:  sym.size,
		})
	}

	const headerSize = 64
	const sectionHeaderSize = 64
	sectionOffsets := make([]uint64, secCount)

	offset := uint64(headerSize)
	sectionOffsets[secText] = offset
	offset += uint64(len(w.text))
	offset = align(offset, 8)
	sectionOffsets[secShstrtab] = offset
	offset += uint64(len(shstrtab.Bytes()))
	offset = align(offset, 8)
	sectionOffsets[secSymtab] = offset
	offset += uint64(symtab.Len())
	offset = align(offset, 8)
	sectionOffsets[secStrtab] = offset
	offset += uint64(len(strtab.Bytes()))
	shoff := align(offset, 8)

	hdr := elf.Header64{
		Ident:     elfIdent(),
		Type:      uint16(elf.ET_REL),
		Machine:   uint16(elf.EM_X86_64),
		Version:   uint32(elf.EV_CURRENT),
		Shoff:     shoff,
		Ehsize:    headerSize,
		Shentsize: sectionHeaderSize,
		Shnum:     secCount,
		Shstrndx:  secShstrtab,
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, hdr)

	buf.Write(w.text)
	padTo(&buf, sectionOffsets[secShstrtab])
	buf.Write(shstrtab.Bytes())
	padTo(&buf, sectionOffsets[secSymtab])
	buf.Write(symtab.Bytes())
	padTo(&buf, sectionOffsets[secStrtab])
	buf.Write(strtab.Bytes())
	padTo(&buf, shoff)

	sections := [secCount]elf.Section64{
		secNull: {},
		secText: {
			Name:      textNameIdx,
			Type:      uint32(elf.SHT_PROGBITS),
			Flags:     uint64(elf.SHF_ALLOC | elf.SHF_EXECINSTR),
			Addralign: symbolAlignment,
			Off:       sectionOffsets[secText],
			Size:      uint64(len(w.text)),
		},
		secShstrtab: {
			Name:      shstrtabNameIdx,
			Type:      uint32(elf.SHT_STRTAB),
			Addralign: 1,
			Off:       sectionOffsets[secShstrtab],
			Size:      uint64(len(shstrtab.Bytes())),
		},
		secSymtab: {
			Name:      symtabNameIdx,
			Type:      uint32(elf.SHT_SYMTAB),
			Link:      secStrtab,
			Info:      uint32(len(w.symbols) + 1),
			Addralign: 8,
			Entsize:   elf.Sym64Size,
			Off:       sectionOffsets[secSymtab],
			Size:      uint64(symtab.Len()),
		},
		secStrtab: {
			Name:      strtabNameIdx,
			Type:      uint32(elf.SHT_STRTAB),
			Addralign: 1,
			Off:       sectionOffsets[secStrtab],
			Size:      uint64(len(strtab.Bytes())),
		},
	}
	for _, s := range sections {
		binary.Write(&buf, binary.LittleEndian, s)
	}

	return buf.Bytes()
}

func align(n uint64, a uint64) uint64 {
	if rem := n % a; rem != 0 {
		return n + (a - rem)
	}
	return n
}

func padTo(buf *bytes.Buffer, target uint64) {
	for uint64(buf.Len()) < target {
		buf.WriteByte(0)
	}
}

func elfIdent() [elf.EI_NIDENT]byte {
	var ident [elf.EI_NIDENT]byte
	copy(ident[0:4], elf.ELFMAG)
	ident[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	ident[elf.EI_OSABI] = byte(elf.ELFOSABI_NONE)
	return ident
}

// strtab is a string table that deduplicates by exact match and always
// starts with an empty string at index 0, per the ELF convention that
// section/symbol name index 0 means "no name".
type strtab struct {
	buf     bytes.Buffer
	offsets map[string]uint32
}

func newStrtab() *strtab {
	return &strtab{offsets: make(map[string]uint32)}
}

func (s *strtab) add(name string) uint32 {
	if idx, ok := s.offsets[name]; ok {
		return idx
	}
	idx := uint32(s.buf.Len())
	s.buf.WriteString(name)
	s.buf.WriteByte(0)
	s.offsets[name] = idx
	return idx
}

func (s *strtab) Bytes() []byte {
	return s.buf.Bytes()
}
