// Package width implements the width lowerer: given a wide operation and a
// shard.Table, it returns the ordered sequence of word-legal operations that
// together compute the same result.
//
// Lower is the single entry point. Internally it dispatches on op.Opcode: a
// fast path handles operands that are already word-legal, and a per-opcode
// switch handles everything else, including pointwise broadcast, carry/borrow
// chains for ADD/SUB, bit-field-extract-backed shifts, CAT region splitting,
// double-word MUL, comparison reductions, LOG2, and a trailing debug
// reassembly chain (CATD) controlled by the active shard.Table's
// config.CATDPolicy.
//
//	┌─────────────┐    fast path    ┌──────────────┐
//	│  wide op     │ ──────────────► │  narrow op   │
//	└─────────────┘                 └──────────────┘
//	       │ wide path (opcode switch)
//	       ▼
//	┌──────────────────────────────┐
//	│ carry chain / extract / CAT  │──► []ir.Op ──► (+ CATD trailer)
//	│ / MUL cross-products / ...   │
//	└──────────────────────────────┘
//
// MUL, NEG, and variable-offset LSH construct further wide intermediate
// operations and recurse into the package's internal lower with the trailing
// CATD chain suppressed,
// since only the outermost call's result is debug-visible.
package width
