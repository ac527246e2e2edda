package objfile

import (
	"bytes"
	"debug/elf"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterProducesParseableObject(t *testing.T) {
	w := NewWriter()
	w.AddTextSymbol("pijama_fn", []byte{0xB8, 0x0A, 0x00, 0x00, 0x00, 0xC3})

	f, err := elf.NewFile(bytes.NewReader(w.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, elf.ET_REL, f.Type)
	assert.Equal(t, elf.EM_X86_64, f.Machine)

	text := f.Section(".text")
	require.NotNil(t, text)
	data, err := text.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xB8, 0x0A, 0x00, 0x00, 0x00, 0xC3}, data)

	syms, err := f.Symbols()
	require.NoError(t, err)
	var found *elf.Symbol
	for i := range syms {
		if syms[i].Name == "pijama_fn" {
			found = &syms[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, elf.STB_GLOBAL, elf.ST_BIND(found.Info))
	assert.Equal(t, elf.STT_FUNC, elf.ST_TYPE(found.Info))
	assert.Equal(t, uint64(6), found.Size)
}

func TestWriterAlignsMultipleSymbols(t *testing.T) {
	w := NewWriter()
	w.AddTextSymbol("a", []byte{0xC3})
	w.AddTextSymbol("b", []byte{0xC3})

	f, err := elf.NewFile(bytes.NewReader(w.Bytes()))
	require.NoError(t, err)

	syms, err := f.Symbols()
	require.NoError(t, err)
	offsets := make(map[string]uint64)
	for _, s := range syms {
		offsets[s.Name] = s.Value
	}
	assert.Equal(t, uint64(0), offsets["a"])
	assert.Equal(t, uint64(symbolAlignment), offsets["b"])
}

func TestWriterWithNoSymbolsStillParses(t *testing.T) {
	w := NewWriter()
	_, err := elf.NewFile(bytes.NewReader(w.Bytes()))
	require.NoError(t, err)
}
