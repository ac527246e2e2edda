package dataflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeLiveVarsDiamond(t *testing.T) {
	fn, x, r, blocks := buildDiamond(t)
	bb0, bb1, bb2, bb3 := blocks[0], blocks[1], blocks[2], blocks[3]

	live := ComputeLiveVars(fn)

	bb0In := live.In.Get(bb0)
	assert.True(t, bb0In.Contains(int(x)), "x live into bb0: it is the branch condition")
	assert.False(t, bb0In.Contains(int(r)), "r not yet defined on entry to bb0")

	bb1In := live.In.Get(bb1)
	assert.False(t, bb1In.Contains(int(r)), "r is defined in bb1 before any use")

	bb3In := live.In.Get(bb3)
	assert.True(t, bb3In.Contains(int(r)), "r live into bb3: it is the return value")

	bb1Out := live.Out.Get(bb1)
	assert.True(t, bb1Out.Contains(int(r)), "r live out of bb1 into bb3")
	bb2Out := live.Out.Get(bb2)
	assert.True(t, bb2Out.Contains(int(r)), "r live out of bb2 into bb3")
}
