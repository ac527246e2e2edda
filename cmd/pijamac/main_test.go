package main

import (
	"bytes"
	"debug/elf"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDumpKnownExample(t *testing.T) {
	out, err := run(t, "dump", "constant")
	require.NoError(t, err)
	assert.Contains(t, out, "let _0: Int;")
	assert.Contains(t, out, "return _0;")
}

func TestGraphvizKnownExample(t *testing.T) {
	out, err := run(t, "graphviz", "identity")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph g {")
}

func TestDumpUnknownExampleIsAnError(t *testing.T) {
	_, err := run(t, "dump", "nonexistent")
	assert.Error(t, err)
}

func TestCompileConstantWritesParseableObject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.o")

	_, err := run(t, "compile", "constant", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	f, err := elf.NewFile(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, elf.ET_REL, f.Type)
	assert.Equal(t, elf.EM_X86_64, f.Machine)

	text := f.Section(".text")
	require.NotNil(t, text)
	code, err := text.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xB8, 0x0A, 0x00, 0x00, 0x00, 0xC3}, code)
}

func TestCompileNoOptimizeLoadImmKeepsFullImm64Mov(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.o")

	_, err := run(t, "compile", "constant", "--no-optimize-loadimm", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	f, err := elf.NewFile(bytes.NewReader(data))
	require.NoError(t, err)
	code, err := f.Section(".text").Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x48, 0xB8, 0x0A, 0, 0, 0, 0, 0, 0, 0, 0xC3}, code)
}

func TestCompileNoPeepholeStillAssembles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.o")

	_, err := run(t, "compile", "identity", "--no-peephole", "-o", path)
	require.NoError(t, err)

	_, err = os.ReadFile(path)
	require.NoError(t, err)
}
