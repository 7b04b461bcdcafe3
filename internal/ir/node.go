package ir

import (
	"github.com/dreamware/flowlower/internal/config"
	"github.com/pkg/errors"
)

// Kind distinguishes the three node families. Each refines the previous:
// Narrow guarantees width <= W, Shallow additionally guarantees depth <= D.
type Kind int

const (
	Wide Kind = iota
	Narrow
	Shallow
)

func (k Kind) String() string {
	switch k {
	case Wide:
		return "wide"
	case Narrow:
		return "narrow"
	case Shallow:
		return "shallow"
	default:
		return "unknown"
	}
}

// NodeID addresses a Node inside an Arena. The zero value never denotes a
// valid node; the Arena's constructors always return IDs starting at 1.
type NodeID int

// Node is the refinement-polymorphic representation of a Flo node. Which
// fields are meaningful depends on Kind: Depth is 0 for non-memory nodes
// regardless of kind, and CATDEscape only ever applies to Narrow and
// Shallow nodes (a CATD trailer shard survives depth lowering's fast-path
// clone with the same over-word-width escape it was built with).
type Node struct {
	Kind       Kind
	Name       string
	Width      int
	Depth      int
	IsMem      bool
	IsConst    bool
	HasCycle   bool
	Cycle      int
	HasPosn    bool
	Posn       string
	CATDEscape bool
}

// Arena owns every Node in a single pass invocation and hands out stable
// integer identities for them. Nothing outside Arena holds a Node by value
// across calls that might resize the backing slice; callers hold NodeIDs.
type Arena struct {
	nodes []Node
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	// index 0 is reserved so the zero NodeID is never valid.
	return &Arena{nodes: make([]Node, 1)}
}

// Node returns the Node value for id. It panics on an out-of-range id,
// which indicates a bug in the caller (every NodeID in circulation was
// handed out by this same Arena).
func (a *Arena) Node(id NodeID) Node {
	return a.nodes[id]
}

// Len returns the number of live nodes, excluding the reserved zero slot.
func (a *Arena) Len() int {
	return len(a.nodes) - 1
}

// All returns every live NodeID in allocation order.
func (a *Arena) All() []NodeID {
	ids := make([]NodeID, 0, a.Len())
	for i := 1; i < len(a.nodes); i++ {
		ids = append(ids, NodeID(i))
	}
	return ids
}

func (a *Arena) insert(n Node) NodeID {
	id := NodeID(len(a.nodes))
	a.nodes = append(a.nodes, n)
	return id
}

// NewWideNode creates a Wide node. Wide nodes carry no width/depth
// restriction.
func (a *Arena) NewWideNode(name string, width, depth int, isMem, isConst bool) NodeID {
	return a.insert(Node{Kind: Wide, Name: name, Width: width, Depth: depth, IsMem: isMem, IsConst: isConst})
}

// NewNarrowNode creates a Narrow node, rejecting width > cfg.Word unless
// catdEscape is set (the one legal over-wide case, used for CATD shards).
func (a *Arena) NewNarrowNode(cfg config.Lowering, name string, width, depth int, isMem, isConst, catdEscape bool) (NodeID, error) {
	if width > cfg.Word && !catdEscape {
		return 0, errors.Wrapf(ErrInputViolation, "narrow node %q built with width %d > W=%d without the CATD escape", name, width, cfg.Word)
	}
	return a.insert(Node{Kind: Narrow, Name: name, Width: width, Depth: depth, IsMem: isMem, IsConst: isConst, CATDEscape: catdEscape}), nil
}

// NewShallowNode creates a Shallow node, rejecting width > cfg.Word unless
// catdEscape is set (a depth-lowered CATD trailer shard, carried over from
// the narrow node it was cloned from) or depth > cfg.Depth.
func (a *Arena) NewShallowNode(cfg config.Lowering, name string, width, depth int, isMem, isConst, catdEscape bool) (NodeID, error) {
	if width > cfg.Word && !catdEscape {
		return 0, errors.Wrapf(ErrInvariant, "shallow node %q built with width %d > W=%d", name, width, cfg.Word)
	}
	if depth > cfg.Depth {
		return 0, errors.Wrapf(ErrInvariant, "shallow node %q built with depth %d > D=%d", name, depth, cfg.Depth)
	}
	return a.insert(Node{Kind: Shallow, Name: name, Width: width, Depth: depth, IsMem: isMem, IsConst: isConst, CATDEscape: catdEscape}), nil
}

// CloneFrom borrows name/width/depth/is_mem/is_const/cycle from an
// existing node of an adjacent family and re-creates it under kind. It is
// the mechanism by which a fast-path operand (already narrow enough, or
// already shallow enough) moves one family down without resynthesising its
// identity-bearing fields.
func (a *Arena) CloneFrom(cfg config.Lowering, kind Kind, src NodeID) (NodeID, error) {
	n := a.Node(src)
	switch kind {
	case Wide:
		return a.NewWideNode(n.Name, n.Width, n.Depth, n.IsMem, n.IsConst), nil
	case Narrow:
		id, err := a.NewNarrowNode(cfg, n.Name, n.Width, n.Depth, n.IsMem, n.IsConst, n.CATDEscape)
		if err != nil {
			return 0, err
		}
		a.nodes[id].HasCycle, a.nodes[id].Cycle = n.HasCycle, n.Cycle
		a.nodes[id].HasPosn, a.nodes[id].Posn = n.HasPosn, n.Posn
		return id, nil
	case Shallow:
		id, err := a.NewShallowNode(cfg, n.Name, n.Width, n.Depth, n.IsMem, n.IsConst, n.CATDEscape)
		if err != nil {
			return 0, err
		}
		a.nodes[id].HasCycle, a.nodes[id].Cycle = n.HasCycle, n.Cycle
		a.nodes[id].HasPosn, a.nodes[id].Posn = n.HasPosn, n.Posn
		return id, nil
	default:
		return 0, errors.Errorf("unknown node kind %d", int(kind))
	}
}

// temp name pools, one independent monotonic counter per combination of
// node family and naming scheme: MWEnW#/MWEnT# (narrow, width-derived /
// node-derived temporaries), MWEsW#/MWEsT# (shallow), MWEwW#/MWEwT# (wide).
// internal/shard owns the counters; this type just names the pool so
// callers don't pass raw strings around.
type TempPool int

const (
	PoolNarrowWidth TempPool = iota
	PoolNarrowTemp
	PoolShallowWidth
	PoolShallowTemp
	PoolWideWidth
	PoolWideTemp
)

func (p TempPool) prefix() string {
	switch p {
	case PoolNarrowWidth:
		return "MWEnW"
	case PoolNarrowTemp:
		return "MWEnT"
	case PoolShallowWidth:
		return "MWEsW"
	case PoolShallowTemp:
		return "MWEsT"
	case PoolWideWidth:
		return "MWEwW"
	case PoolWideTemp:
		return "MWEwT"
	default:
		return "MWE?"
	}
}
