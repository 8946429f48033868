// Package store ties the embedding model, the vector index, and the
// document registry together into a single retrieval surface. Documents
// are ingested as ordered chunks; every chunk is embedded and appended to
// one shared index, and the store remembers which index positions belong
// to which document so that search can be scoped to a single document.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/papershelf/papershelf/pkg/embeddings"
	"github.com/papershelf/papershelf/pkg/vector"
)

// Chunk is one retrievable unit of a document.
type Chunk struct {
	Text string `json:"text"`
	Page int    `json:"page"`
}

// Document records a registered document and the contiguous range of
// index positions its chunks occupy.
type Document struct {
	ID       string  `json:"id"`
	Filename string  `json:"filename"`
	Chunks   []Chunk `json:"chunks"`

	// Start is the index position of the first chunk; the document
	// owns positions [Start, Start+Count).
	Start int `json:"start"`
	Count int `json:"count"`
}

// Config holds store settings.
type Config struct {
	// DataDir is where the registry and index snapshots are written.
	// Empty disables persistence.
	DataDir string
}

// Store is the document registry and retrieval engine. A single mutex
// serializes writers against readers: AddDocument takes the write lock,
// Search and the read accessors take the read lock.
type Store struct {
	mu sync.RWMutex

	cfg      Config
	embedder embeddings.Embedder
	index    vector.Index
	logger   *zap.Logger

	docs map[string]*Document
	tags []string
}

// New creates a store around an embedder and a vector index. If DataDir
// holds a previously saved state it is loaded; a missing or unreadable
// state starts the store empty.
func New(cfg Config, embedder embeddings.Embedder, index vector.Index, logger *zap.Logger) (*Store, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if index == nil {
		return nil, fmt.Errorf("vector index is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		cfg:      cfg,
		embedder: embedder,
		index:    index,
		logger:   logger,
		docs:     make(map[string]*Document),
	}

	s.load()

	return s, nil
}

// AddDocument registers a document and appends its chunk embeddings to
// the index. The first document to arrive fits the embedding model when
// the embedder is trainable and not yet trained; later calls never
// retrain. The new state is persisted before AddDocument returns.
func (s *Store) AddDocument(ctx context.Context, docID string, chunks []Chunk, filename string) error {
	if docID == "" {
		return ErrEmptyDocumentID
	}
	if len(chunks) == 0 {
		return ErrNoChunks
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[docID]; ok {
		return fmt.Errorf("%w: %s", ErrDocumentExists, docID)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	if t, ok := s.embedder.(embeddings.Trainable); ok && !t.Trained() {
		s.logger.Info("fitting embedding model",
			zap.String("doc_id", docID),
			zap.Int("chunks", len(chunks)))
		if err := t.Fit(ctx, texts); err != nil {
			return fmt.Errorf("fitting embedding model: %w", err)
		}
	}

	vecs, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}

	start := s.index.Len()
	if err := s.index.Append(ctx, vecs); err != nil {
		return fmt.Errorf("appending to index: %w", err)
	}

	for range chunks {
		s.tags = append(s.tags, docID)
	}

	doc := &Document{
		ID:       docID,
		Filename: filename,
		Chunks:   append([]Chunk(nil), chunks...),
		Start:    start,
		Count:    len(chunks),
	}
	s.docs[docID] = doc

	if err := s.save(); err != nil {
		return fmt.Errorf("persisting store: %w", err)
	}

	s.logger.Info("document added",
		zap.String("doc_id", docID),
		zap.String("filename", filename),
		zap.Int("chunks", len(chunks)),
		zap.Int("index_size", s.index.Len()))

	return nil
}

// Search ranks the whole index against the query and returns up to k
// chunks belonging to docID, nearest first, with duplicate texts
// collapsed to their best-ranked occurrence. An unknown docID returns no
// results and no error. A blank query skips ranking and returns the
// document's first k unique chunks in reading order.
func (s *Store) Search(ctx context.Context, query, docID string, k int) ([]Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[docID]
	if !ok {
		return nil, nil
	}
	if k <= 0 {
		return nil, nil
	}

	if strings.TrimSpace(query) == "" {
		return leadingChunks(doc, k), nil
	}

	qvec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := s.index.Search(ctx, qvec, 0)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	results := make([]Chunk, 0, k)
	seen := make(map[string]struct{}, k)
	for _, hit := range hits {
		if hit.Position < 0 || hit.Position >= len(s.tags) {
			continue
		}
		if s.tags[hit.Position] != docID {
			continue
		}
		chunk := doc.Chunks[hit.Position-doc.Start]
		if _, dup := seen[chunk.Text]; dup {
			continue
		}
		seen[chunk.Text] = struct{}{}
		results = append(results, chunk)
		if len(results) == k {
			break
		}
	}

	return results, nil
}

// Exists reports whether a document id is registered.
func (s *Store) Exists(docID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.docs[docID]
	return ok
}

// Filename returns the filename recorded for a document id.
func (s *Store) Filename(docID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[docID]
	if !ok {
		return "", false
	}
	return doc.Filename, true
}

// Documents returns the ids of all registered documents.
func (s *Store) Documents() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	return ids
}

// Close releases the embedder and the index.
func (s *Store) Close() error {
	if err := s.embedder.Close(); err != nil {
		return err
	}
	return s.index.Close()
}

func leadingChunks(doc *Document, k int) []Chunk {
	results := make([]Chunk, 0, k)
	seen := make(map[string]struct{}, k)
	for _, chunk := range doc.Chunks {
		if _, dup := seen[chunk.Text]; dup {
			continue
		}
		seen[chunk.Text] = struct{}{}
		results = append(results, chunk)
		if len(results) == k {
			break
		}
	}
	return results
}
