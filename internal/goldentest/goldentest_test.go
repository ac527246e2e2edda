package goldentest

import (
	"strings"
	"testing"
)

func TestAssertBytesPassesOnMatch(t *testing.T) {
	AssertBytes(t, []byte{0x48, 0x89, 0xF8, 0xC3}, []byte{0x48, 0x89, 0xF8, 0xC3})
}

func TestDiffMarksMismatchedBytes(t *testing.T) {
	out := diff([]byte{0x01, 0x02}, []byte{0x01, 0x03})
	for _, sub := range []string{"02", "03", "*"} {
		if !strings.Contains(out, sub) {
			t.Fatalf("diff output missing %q: %q", sub, out)
		}
	}
}
