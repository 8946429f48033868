// Package flat provides an in-memory, append-only exact L2 index.
//
// Every search is a brute-force scan over all stored vectors. Cost grows
// linearly with the total number of vectors, which is the accepted trade-off
// for a single shared index that must rank everything on every query.
package flat

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/papershelf/papershelf/pkg/vector"
)

// Index is a brute-force exact L2 index.
type Index struct {
	mu         sync.RWMutex
	dimensions int
	vectors    [][]float32
}

// Config holds configuration for the flat index.
type Config struct {
	// Dimensions is the required length of every stored vector.
	Dimensions int
}

// NewIndex creates an empty flat index.
func NewIndex(cfg Config) (*Index, error) {
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("flat index dimensions must be positive, got %d", cfg.Dimensions)
	}
	return &Index{dimensions: cfg.Dimensions}, nil
}

// Append adds vectors to the end of the index in the given order.
func (x *Index) Append(_ context.Context, vectors [][]float32) error {
	for _, v := range vectors {
		if len(v) != x.dimensions {
			return fmt.Errorf("%w: got %d, index holds %d", vector.ErrDimensionMismatch, len(v), x.dimensions)
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.vectors = append(x.vectors, vectors...)
	return nil
}

// Search ranks stored vectors by ascending L2 distance to the query and
// returns the k nearest. Equal distances keep the sort's order; no
// secondary key is applied.
func (x *Index) Search(_ context.Context, query []float32, k int) ([]vector.Hit, error) {
	if len(query) != x.dimensions {
		return nil, fmt.Errorf("%w: query has %d, index holds %d", vector.ErrDimensionMismatch, len(query), x.dimensions)
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	hits := make([]vector.Hit, len(x.vectors))
	for i, v := range x.vectors {
		hits[i] = vector.Hit{Position: i, Distance: l2(v, query)}
	}

	sort.Slice(hits, func(a, b int) bool {
		return hits[a].Distance < hits[b].Distance
	})

	if k > 0 && k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of stored vectors.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.vectors)
}

// Snapshot returns a copy of all stored vectors in append order.
func (x *Index) Snapshot() [][]float32 {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make([][]float32, len(x.vectors))
	for i, v := range x.vectors {
		out[i] = append([]float32(nil), v...)
	}
	return out
}

// Restore replaces the index contents with the given vectors.
func (x *Index) Restore(vectors [][]float32) error {
	for _, v := range vectors {
		if len(v) != x.dimensions {
			return fmt.Errorf("%w: got %d, index holds %d", vector.ErrDimensionMismatch, len(v), x.dimensions)
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.vectors = vectors
	return nil
}

// Close is a no-op for the in-memory index.
func (x *Index) Close() error { return nil }

// l2 computes the L2 (Euclidean) distance between two equal-length vectors.
func l2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return float32(math.Sqrt(float64(sum)))
}

var (
	_ vector.Index       = (*Index)(nil)
	_ vector.Snapshotter = (*Index)(nil)
)
