package amd64

// ScaleOne is the only SIB scale this encoder ever needs: every SIB byte it
// emits exists solely to route around the rsp/r12 addressing-mode escape,
// not to express a real scaled-index computation.
const ScaleOne = 0b00

// SIBBuilder assembles an SIB byte field by field, with the same set-once
// discipline as RexBuilder and ModRMBuilder.
type SIBBuilder struct {
	scale, index, base          byte
	scaleSet, indexSet, baseSet bool
}

func NewSIB() *SIBBuilder {
	return &SIBBuilder{}
}

func (sb *SIBBuilder) SetScale(scale byte) *SIBBuilder {
	if sb.scaleSet {
		panic("amd64: SIB.scale set twice")
	}
	sb.scale, sb.scaleSet = scale&0b11, true
	return sb
}

func (sb *SIBBuilder) SetIndex(index byte) *SIBBuilder {
	if sb.indexSet {
		panic("amd64: SIB.index set twice")
	}
	sb.index, sb.indexSet = index&0b111, true
	return sb
}

func (sb *SIBBuilder) SetBase(base byte) *SIBBuilder {
	if sb.baseSet {
		panic("amd64: SIB.base set twice")
	}
	sb.base, sb.baseSet = base&0b111, true
	return sb
}

func (sb *SIBBuilder) Finish() byte {
	if !sb.scaleSet || !sb.indexSet || !sb.baseSet {
		panic("amd64: SIB byte finished with an unset field")
	}
	return sb.scale<<6 | sb.index<<3 | sb.base
}
