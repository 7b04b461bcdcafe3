package ir

// Op is a single operation: an opcode, a destination node, and an ordered,
// fixed-arity source list. Source arity and meaning are opcode-dependent;
// callers that need named access to the first four sources can use S, T, U,
// V.
type Op struct {
	Opcode Opcode
	D      NodeID
	Src    []NodeID
}

// NewOp builds an Op from a destination and source list.
func NewOp(op Opcode, d NodeID, src ...NodeID) Op {
	return Op{Opcode: op, D: d, Src: append([]NodeID(nil), src...)}
}

// S returns the first source, or the zero NodeID if there isn't one.
func (o Op) S() NodeID { return o.srcAt(0) }

// T returns the second source, or the zero NodeID if there isn't one.
func (o Op) T() NodeID { return o.srcAt(1) }

// U returns the third source, or the zero NodeID if there isn't one.
func (o Op) U() NodeID { return o.srcAt(2) }

// V returns the fourth source, or the zero NodeID if there isn't one.
func (o Op) V() NodeID { return o.srcAt(3) }

func (o Op) srcAt(i int) NodeID {
	if i >= len(o.Src) {
		return 0
	}
	return o.Src[i]
}

// Operands returns the destination followed by every source, the set
// word-legality and depth-legality are checked over.
func (o Op) Operands() []NodeID {
	out := make([]NodeID, 0, len(o.Src)+1)
	out = append(out, o.D)
	out = append(out, o.Src...)
	return out
}
