// Package shard computes the derived decompositions of a Flo node: the
// narrow shards of a wide node, the CATD debug-reassembly shards of a wide
// node, and the shallow (depth) shards of a narrow memory node.
//
// # Overview
//
// A shard.Table is the sole owner of every shard node it creates, and the
// single place that decomposition into narrow, CATD, or shallow shards
// happens (the unit being decomposed is a node's bit width or memory depth,
// not a key range):
//
//	┌─────────────────────────────────────────┐
//	│               shard.Table                │
//	├─────────────────────────────────────────┤
//	│  narrow  : NodeID -> []NodeID  (cached)  │
//	│  catd    : NodeID -> []NodeID  (cached)  │
//	│  shallow : NodeID -> []NodeID  (cached)  │
//	│  counters: 6 monotonic temp-name pools   │
//	└─────────────────────────────────────────┘
//
// Every method is pure with respect to node identity: calling Narrow (or
// Shallow) twice on the same NodeID returns the exact same slice of
// NodeIDs, not merely shards with the same shape, because the result is
// memoised the first time it is computed. The memo maps and the counters
// that name fresh temporaries are guarded by a mutex; the backing ir.Arena
// and the constant-truncation record are not, so a Table is not safe for
// concurrent use. The default driver (internal/driver) uses one Table from
// a single goroutine.
package shard
