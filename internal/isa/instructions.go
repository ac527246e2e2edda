package isa

import (
	"fmt"
	"strings"
)

// Instructions is the owned output of lowering: an instruction list plus the
// label allocator used to name its branch targets. The x86-64 encoder
// consumes one of these and yields bytes; nothing aliases it afterwards.
type Instructions[R fmt.Stringer] struct {
	Items     []Instruction[R]
	nextLabel uint32
}

func NewInstructions[R fmt.Stringer]() *Instructions[R] {
	return &Instructions[R]{}
}

// NewLabel allocates a Label distinct from every other label this value has
// produced. Its byte offset is unknown until a later instruction attaches it
// and the encoder runs.
func (is *Instructions[R]) NewLabel() Label {
	l := Label(is.nextLabel)
	is.nextLabel++
	return l
}

// Push appends inst to the instruction list.
func (is *Instructions[R]) Push(inst Instruction[R]) {
	is.Items = append(is.Items, inst)
}

// Len returns the number of instructions.
func (is *Instructions[R]) Len() int {
	return len(is.Items)
}

// Dump renders the instruction list one per line, for debugging and test
// failure messages.
func (is *Instructions[R]) Dump() string {
	var b strings.Builder
	for _, inst := range is.Items {
		fmt.Fprintln(&b, inst.String())
	}
	return b.String()
}
