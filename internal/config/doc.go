// Package config carries the two scalar parameters that govern every
// lowering decision (the target word length W and the maximum memory depth
// D), plus the CATD debug-chain emission policy, as a single immutable
// value instead of process-wide mutable state.
//
// The original design threaded W and D as set-once-read-many globals on
// the node types themselves, with a fatal abort if either was set twice or
// read before being set. That failure mode is eliminated here by
// construction: a Lowering value is built once by New and passed
// explicitly to every function that needs it. There is no setter.
package config
