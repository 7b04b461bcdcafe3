package shard

import (
	"strconv"
	"sync"

	"github.com/dreamware/flowlower/internal/config"
	"github.com/dreamware/flowlower/internal/ir"
)

// Table computes and memoises the shardings of every node produced or
// consumed by a single pass invocation. Construct one per run with New and
// share it between internal/width and internal/depth so a node's shards
// are computed at most once.
type Table struct {
	arena *ir.Arena
	cfg   config.Lowering

	mu       sync.Mutex
	narrow   map[ir.NodeID][]ir.NodeID
	catd     map[ir.NodeID][]ir.NodeID
	shallow  map[ir.NodeID][]ir.NodeID
	counters [6]uint64

	truncated   map[ir.NodeID]bool
	truncations []string
}

// New returns a Table backed by arena, computing shards subject to cfg.
func New(arena *ir.Arena, cfg config.Lowering) *Table {
	return &Table{
		arena:     arena,
		cfg:       cfg,
		narrow:    make(map[ir.NodeID][]ir.NodeID),
		catd:      make(map[ir.NodeID][]ir.NodeID),
		shallow:   make(map[ir.NodeID][]ir.NodeID),
		truncated: make(map[ir.NodeID]bool),
	}
}

// Arena returns the backing arena, for callers that need to create
// non-shard nodes (e.g. freestanding constants) through the same arena.
func (t *Table) Arena() *ir.Arena { return t.arena }

// Config returns the lowering parameters this table was built with.
func (t *Table) Config() config.Lowering { return t.cfg }

// Truncations returns, in first-seen order, one diagnostic string per wide
// constant node whose value was wider than one word and was therefore
// silently truncated by the rule that a constant only ever lands in shard
// 0, with every other shard zeroed. Callers (internal/driver) log these
// once per run.
func (t *Table) Truncations() []string {
	return append([]string(nil), t.truncations...)
}

func (t *Table) nextName(pool ir.TempPool) string {
	t.mu.Lock()
	n := t.counters[pool]
	t.counters[pool]++
	t.mu.Unlock()
	return pool.prefix() + strconv.FormatUint(n, 10)
}

// TempWidth creates a fresh, non-memory, non-constant temporary of the
// given kind and width, named from the "create from width" pool
// (MWEnW#/MWEsW#/MWEwW# per kind).
func (t *Table) TempWidth(kind ir.Kind, width int) (ir.NodeID, error) {
	pool := map[ir.Kind]ir.TempPool{
		ir.Wide:    ir.PoolWideWidth,
		ir.Narrow:  ir.PoolNarrowWidth,
		ir.Shallow: ir.PoolShallowWidth,
	}[kind]
	return t.newTemp(pool, kind, width, 0, false)
}

// TempLike creates a fresh, non-memory, non-constant temporary of the
// given kind, with width (and, if the template is a memory, depth) copied
// from template, named from the "create from template" pool
// (MWEnT#/MWEsT#/MWEwT# per kind).
func (t *Table) TempLike(kind ir.Kind, template ir.NodeID) (ir.NodeID, error) {
	n := t.arena.Node(template)
	pool := map[ir.Kind]ir.TempPool{
		ir.Wide:    ir.PoolWideTemp,
		ir.Narrow:  ir.PoolNarrowTemp,
		ir.Shallow: ir.PoolShallowTemp,
	}[kind]
	depth := 0
	if n.IsMem {
		depth = n.Depth
	}
	return t.newTemp(pool, kind, n.Width, depth, n.IsMem)
}

func (t *Table) newTemp(pool ir.TempPool, kind ir.Kind, width, depth int, isMem bool) (ir.NodeID, error) {
	name := t.nextName(pool)
	switch kind {
	case ir.Wide:
		return t.arena.NewWideNode(name, width, depth, isMem, false), nil
	case ir.Narrow:
		return t.arena.NewNarrowNode(t.cfg, name, width, depth, isMem, false, false)
	case ir.Shallow:
		return t.arena.NewShallowNode(t.cfg, name, width, depth, isMem, false, false)
	default:
		panic("shard: unknown kind")
	}
}

// Const creates a constant node of the given kind and width whose name is
// the decimal literal itself, so two requests for the same literal at the
// same width and kind are trivially identifiable as the same value.
func (t *Table) Const(kind ir.Kind, width int, value uint64) (ir.NodeID, error) {
	name := strconv.FormatUint(value, 10)
	switch kind {
	case ir.Wide:
		return t.arena.NewWideNode(name, width, 0, false, true), nil
	case ir.Narrow:
		return t.arena.NewNarrowNode(t.cfg, name, width, 0, false, true, false)
	case ir.Shallow:
		return t.arena.NewShallowNode(t.cfg, name, width, 0, false, true, false)
	default:
		panic("shard: unknown kind")
	}
}
