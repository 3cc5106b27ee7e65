// Package list exposes the replicated sequence as a positional list of
// runes.
//
// Local edits return operations (InsertOp, DeleteOp) to broadcast; applying
// a remote operation returns the text edits (TextOp) to replay on the
// caller's buffer. Two replicas that apply the same set of operations render
// the same string, whatever the delivery order.
//
// A List is single-threaded: callers sharing one between goroutines must
// serialize access externally.
package list
