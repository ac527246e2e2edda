// Package goldentest provides a byte-diff comparator for checking assembled
// bytes against literal golden sequences. The internal/amd64 encoder tests
// do not import it; they compare byte slices with assert.Equal directly.
package goldentest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertBytes fails t with a byte-by-byte hex diff if want and got differ.
func AssertBytes(t *testing.T, want, got []byte) {
	t.Helper()
	if assert.Equal(t, want, got) {
		return
	}
	t.Log(diff(want, got))
}

func diff(want, got []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  idx  want  got\n")
	n := len(want)
	if len(got) > n {
		n = len(got)
	}
	for i := 0; i < n; i++ {
		wantByte := "--"
		if i < len(want) {
			wantByte = fmt.Sprintf("%02X", want[i])
		}
		gotByte := "--"
		if i < len(got) {
			gotByte = fmt.Sprintf("%02X", got[i])
		}
		mark := " "
		if wantByte != gotByte {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s %4d  %s    %s\n", mark, i, wantByte, gotByte)
	}
	return b.String()
}
