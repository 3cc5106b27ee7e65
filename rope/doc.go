// Package rope stores the replicated sequence as a self-balancing tree of
// identifier runs.
//
// Each node covers the live sub-range of a block, a run of consecutive
// identifiers sharing a base. Nodes are ordered by identifier, so an
// in-order traversal yields the sequence order, while per-node subtree sizes
// give O(log n) translation between integer positions and identifiers.
//
// The tree is an AVL tree: insertions and deletions rebalance with single
// and double rotations, recomputing heights and sizes bottom-up. Deleting
// the interior of a node splits it into two nodes that share the same block;
// remote insertions that extend a block grow the adjacent node in place.
//
// A Tree is confined to its owning replica; it performs no locking.
package rope
