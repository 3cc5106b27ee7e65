// Package rename compacts the identifier space of the replicated sequence.
//
// Over time, concurrent editing makes identifiers long and sparse. A rename
// rewrites every element of the sequence into a short, dense identifier and
// opens a new epoch; a RenamingMap records the rewrite so that operations
// generated under older epochs can still be translated and applied.
//
// Epochs form a tree rooted at the genesis identifier scheme. Translating an
// operation between two epochs walks up from the deeper epoch to their
// lowest common ancestor and back down, composing the per-epoch maps.
//
// List wraps the replicable list with the epoch machinery: it tags outbound
// operations with the current epoch and translates inbound ones, tolerating
// out-of-order delivery of rename operations by pooling what cannot be
// interpreted yet.
package rename
