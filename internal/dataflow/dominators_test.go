package dataflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDominatorsDiamond(t *testing.T) {
	fn, _, _, blocks := buildDiamond(t)
	bb0, bb1, bb2, bb3 := blocks[0], blocks[1], blocks[2], blocks[3]

	doms := ComputeDominators(fn)

	assert.True(t, doms.Dominates(fn.Entry, bb0))
	assert.True(t, doms.Dominates(bb0, bb1))
	assert.True(t, doms.Dominates(bb0, bb2))
	assert.True(t, doms.Dominates(bb0, bb3))

	// bb1 does not dominate bb3: bb2 is an alternate path to bb3.
	assert.False(t, doms.Dominates(bb1, bb3))
	assert.False(t, doms.Dominates(bb2, bb3))

	// Every block dominates itself.
	assert.True(t, doms.Dominates(bb0, bb0))
	assert.True(t, doms.Dominates(bb1, bb1))
	assert.True(t, doms.Dominates(bb2, bb2))
	assert.True(t, doms.Dominates(bb3, bb3))
}
