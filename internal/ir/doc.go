// Package ir defines the in-memory representation of the Flo netlist: node
// families, the closed opcode alphabet, and operations over them.
//
// # Overview
//
// Three node families are modeled as one Node struct carrying a Kind tag:
//
//	┌─────────────────────────────────────────┐
//	│                 Node                     │
//	├─────────────────────────────────────────┤
//	│  Kind: Wide | Narrow | Shallow           │
//	│  Name, Width, Depth, IsMem, IsConst      │
//	│  Cycle (optional), Posn (optional)       │
//	│  CATDEscape (Narrow and Shallow)         │
//	└─────────────────────────────────────────┘
//
// Wide nodes carry arbitrary width and depth and are the input alphabet.
// Narrow nodes are guaranteed width <= W, except a node explicitly marked
// CATDEscape (the one legal over-wide case, used only for CATD debug
// chains). Shallow nodes are guaranteed width <= W and depth <= D and are
// the output alphabet; a Shallow node cloned from a CATDEscape Narrow node
// keeps the escape and may be wider than W.
//
// # Arena
//
// Nodes are not shared by pointer. An Arena owns every Node and hands out
// an integer NodeID; every other package (internal/shard, internal/width,
// internal/depth, internal/driver) refers to nodes by ID. This makes node
// identity a plain integer comparison and removes the need for
// reference-counted handles or cycle-aware ownership.
package ir
