// Package ident implements the dense identifier space of the LogootSplit
// sequence CRDT.
//
// Every element of the replicated sequence is addressed by an Identifier, a
// nonempty sequence of Tuples ordered lexicographically. Between any two
// distinct identifiers a third one can be generated (Between), which is what
// lets replicas insert concurrently without coordination. Consecutive
// identifiers sharing a common base are grouped into Intervals so that a run
// of elements costs a single base plus an offset range.
//
// Identifiers are immutable value objects; they may be shared freely between
// replicas and goroutines.
package ident
