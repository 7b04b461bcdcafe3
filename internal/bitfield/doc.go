// Package bitfield implements the one shared helper the width lowerer
// leans on for shifts, CAT, and MUL: extracting an arbitrary contiguous
// bit range of a wide value into a single narrow destination.
//
// Given a wide source already decomposed into narrow shards (via
// internal/shard), a bit offset, and a bit count no larger than one word,
// Extract produces the narrow operations that compute that range. The
// range either lies entirely within one shard (a single RSH, relying on
// RSH's natural zero-extension above the source's width to cover ranges
// that run off the end of the source), straddles exactly two adjacent
// shards (a low RSH, a high RSH, and a CAT), or is out of range entirely
// (a constant zero). A range spanning more than two shards never occurs
// for a legal W and is reported as an internal invariant violation rather
// than silently mishandled.
package bitfield
