// Package netlist round-trips the line-oriented textual form the rest of
// this module lowers and emits. It owns no lowering semantics: Parse turns
// text into internal/ir values, Emit turns them back into text.
//
// A declaration line names a memory, register, or wire node:
//
//	<name> = mem/<width> <depth>
//	<name> = reg/<width>
//	<name> = wire/<width>
//
// An operation line both declares its destination and records the
// operation that produces it:
//
//	<dst> = <OPCODE> <width> <src>, <src>, …
//
// Each <src> is either a previously declared identifier or a decimal/hex
// integer literal, materialised as a constant node named after its own
// literal text. Blank lines and lines starting with ";" are comments.
package netlist
