package config

import "github.com/pkg/errors"

// CATDPolicy controls when the width lowerer appends a CATD debug
// reassembly chain after a rewritten operation's body.
type CATDPolicy int

const (
	// CATDNone never emits a trailing CATD chain.
	CATDNone CATDPolicy = iota
	// CATDOnChain emits a trailing CATD chain whenever the destination
	// has more than one narrow shard, subject to the per-opcode
	// suppression rules in internal/width (IN, WR, single-shard
	// destinations).
	CATDOnChain
	// CATDOnChainExceptWR suppresses the chain for WR. internal/width
	// never chains a WR under any policy, so this emits the same chains
	// as CATDOnChain; it is the value the width+depth tool uses.
	CATDOnChainExceptWR
)

func (p CATDPolicy) String() string {
	switch p {
	case CATDNone:
		return "none"
	case CATDOnChain:
		return "on-chain"
	case CATDOnChainExceptWR:
		return "on-chain-except-WR"
	default:
		return "unknown"
	}
}

// Lowering is the immutable set of parameters threaded through a single
// pass invocation. Build one with New; there is deliberately no way to
// mutate a Lowering value after construction.
type Lowering struct {
	Word  int
	Depth int
	CATD  CATDPolicy
}

// New validates word and depth and returns a Lowering value configured
// with the given CATD policy. Both word and depth must be at least 2:
// a one-bit word can't carry a carry/borrow chain and a one-entry memory
// can't be meaningfully split.
func New(word, depth int, catd CATDPolicy) (Lowering, error) {
	if word < 2 {
		return Lowering{}, errors.Errorf("word length must be >= 2, got %d", word)
	}
	if depth < 2 {
		return Lowering{}, errors.Errorf("memory depth must be >= 2, got %d", depth)
	}
	switch catd {
	case CATDNone, CATDOnChain, CATDOnChainExceptWR:
	default:
		return Lowering{}, errors.Errorf("unknown CATD policy %d", int(catd))
	}
	return Lowering{Word: word, Depth: depth, CATD: catd}, nil
}
