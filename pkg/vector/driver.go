// Package vector provides interfaces and implementations for append-only
// vector index storage and exact nearest-neighbor ranking.
package vector

import "context"

// Hit represents a ranked search result.
type Hit struct {
	// Position is the vector's append position in the index. Positions are
	// assigned sequentially and never reused.
	Position int

	// Distance is the L2 distance to the query vector (lower = closer).
	Distance float32
}

// Index stores embeddings in append order and ranks them by ascending L2
// distance to a query vector. The index supports only append and ranking:
// no update, no delete, no partial re-index.
//
// Ties in distance keep whatever order the ranking produces; callers must
// not rely on any particular tie-break.
type Index interface {
	// Append adds vectors to the end of the index in the given order.
	Append(ctx context.Context, vectors [][]float32) error

	// Search returns the k nearest vectors to the query, ordered by
	// ascending distance. k <= 0 or k > Len() ranks the entire index.
	Search(ctx context.Context, query []float32, k int) ([]Hit, error)

	// Len returns the number of stored vectors.
	Len() int

	// Close releases any resources held by the index.
	Close() error
}

// Snapshotter is implemented by in-memory indexes whose contents must be
// dumped to and restored from an external persistence layer. Durable
// indexes (e.g. sqlite-vec) do not implement it.
type Snapshotter interface {
	// Snapshot returns a copy of all stored vectors in append order.
	Snapshot() [][]float32

	// Restore replaces the index contents with the given vectors.
	Restore(vectors [][]float32) error
}
