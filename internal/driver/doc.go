// Package driver orchestrates a single lowering run: parse a wide netlist,
// run the width lowerer and then the depth lowerer over every operation,
// and emit the result. It owns the single shard.Table and config.Lowering
// instance for the run and threads them explicitly through every call; there
// is no package-level mutable state.
package driver
