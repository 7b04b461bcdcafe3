// Package depth implements the lowering pass that follows width lowering:
// rewriting a memory read or write whose logical depth exceeds the
// configured maximum D into a sequence of operations over physical
// sub-memories of depth <= D.
//
// Split is the entry point. A depth-legal operation (every memory operand's
// depth already <= D) passes through as a single shallow clone. A RD against
// an over-deep memory becomes a linear mux chain over per-bank reads,
// steered by the high bits of the address; a WR becomes a fanout of
// per-bank writes, each gated by an AND of the caller's write-enable with
// that bank's address match. Any other opcode reaching this package still
// depth-illegal is an internal-invariant error: width lowering runs first
// and nothing else touches memory.
package depth
