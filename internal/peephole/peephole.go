// Package peephole runs the single post-lowering optimisation this backend
// defines: erasing a Jump whose target label is attached to the very next
// instruction. The instruction is rewritten to Nop rather than removed, so
// index-based debug output stays stable across the pass.
package peephole

import (
	"fmt"

	"github.com/pijama-lang/pijamac/internal/isa"
)

// Run erases dead jumps to the immediately following label, in place.
func Run[R fmt.Stringer](instructions *isa.Instructions[R]) {
	items := instructions.Items
	for i := 0; i < len(items)-1; i++ {
		inst := &items[i]
		if inst.Kind != isa.KindJump {
			continue
		}
		next := items[i+1]
		if next.AttachedLabel == nil || *next.AttachedLabel != inst.Target {
			continue
		}
		*inst = isa.Nop[R]()
	}
}
