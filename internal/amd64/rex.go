package amd64

// RexBuilder assembles a REX prefix byte field by field. Every field must be
// set exactly once before Finish is called; setting a field twice, or
// calling Finish before all four are set, panics. This guarantees no byte
// is ever emitted with an unset field.
type RexBuilder struct {
	w, r, x, b             bool
	wSet, rSet, xSet, bSet bool
}

// NewRex starts a REX byte.
func NewRex() *RexBuilder {
	return &RexBuilder{}
}

func (rb *RexBuilder) SetW(v bool) *RexBuilder {
	if rb.wSet {
		panic("amd64: REX.W set twice")
	}
	rb.w, rb.wSet = v, true
	return rb
}

func (rb *RexBuilder) SetR(v bool) *RexBuilder {
	if rb.rSet {
		panic("amd64: REX.R set twice")
	}
	rb.r, rb.rSet = v, true
	return rb
}

func (rb *RexBuilder) SetX(v bool) *RexBuilder {
	if rb.xSet {
		panic("amd64: REX.X set twice")
	}
	rb.x, rb.xSet = v, true
	return rb
}

func (rb *RexBuilder) SetB(v bool) *RexBuilder {
	if rb.bSet {
		panic("amd64: REX.B set twice")
	}
	rb.b, rb.bSet = v, true
	return rb
}

// Finish returns the REX byte and whether it must actually be emitted: a
// REX with every bit clear carries no information and NASM -O0 never
// writes it, so callers should skip it in that case (unless some other
// encoding rule forces its presence, e.g. low-byte register selection).
func (rb *RexBuilder) Finish() (value byte, emit bool) {
	if !rb.wSet || !rb.rSet || !rb.xSet || !rb.bSet {
		panic("amd64: REX byte finished with an unset field")
	}
	value = 0b0100_0000
	if rb.w {
		value |= 0b1000
	}
	if rb.r {
		value |= 0b0100
	}
	if rb.x {
		value |= 0b0010
	}
	if rb.b {
		value |= 0b0001
	}
	return value, rb.w || rb.r || rb.x || rb.b
}
