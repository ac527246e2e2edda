package ir

import (
	"fmt"
	"strings"
)

// Dump renders the function as the textual CFG form printed by the pijamac
// CLI's dump subcommand.
func (f *Function) Dump() string {
	var b strings.Builder
	b.WriteString("{\n")

	for _, e := range f.Locals.Entries() {
		fmt.Fprintf(&b, "  let %s: %s;\n", e.Key, *e.Value)
	}

	for _, e := range f.Blocks.Entries() {
		fmt.Fprintf(&b, "  %s: {\n", e.Key)
		bb := *e.Value
		for _, stmt := range bb.Statements {
			fmt.Fprintf(&b, "    %s;\n", stmt)
		}
		fmt.Fprintf(&b, "    %s;\n", bb.Terminator)
		b.WriteString("  }\n")
	}

	b.WriteString("}\n")
	return b.String()
}
