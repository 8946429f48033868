// Package sqlitevec provides a SQLite-backed vector index using sqlite-vec.
//
// Unlike the in-memory flat index, this index is durable on its own: vectors
// live in the database file and survive restarts without participating in
// the store's snapshot persistence.
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/papershelf/papershelf/pkg/vector"
)

// Index implements vector.Index using SQLite with sqlite-vec.
type Index struct {
	db         *sql.DB
	dimensions int
	logger     *zap.Logger
}

// Config holds configuration for the SQLite vec index.
type Config struct {
	// DBPath is the path to the SQLite database file.
	// Use ":memory:" for an in-memory database.
	DBPath string

	// Dimensions is the number of dimensions for the embedding vectors.
	Dimensions int
}

// NewIndex creates a new SQLite vector index backed by sqlite-vec.
func NewIndex(c Config, logger *zap.Logger) (*Index, error) {
	// enable connection to have sqlite-vec extension
	sqlite_vec.Auto()

	if c.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if c.Dimensions <= 0 {
		return nil, fmt.Errorf("sqlite-vec embedding dimensions must be positive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", vector.ErrConnection, err)
	}

	// Verify sqlite-vec is loaded
	var vecVersion string
	if err := db.QueryRow("SELECT vec_version()").Scan(&vecVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: sqlite-vec not available: %v", vector.ErrConnection, err)
	}

	// vec0 virtual tables use integer rowids; append positions map to
	// rowid = position + 1.
	createVec := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS chunk_embeddings USING vec0(embedding float[%d])`,
		c.Dimensions,
	)
	if _, err := db.Exec(createVec); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating vec0 table: %w", err)
	}

	logger.Info("sqlite-vec index initialized",
		zap.String("db_path", c.DBPath),
		zap.Int("dimensions", c.Dimensions),
		zap.String("vec_version", vecVersion),
	)

	return &Index{
		db:         db,
		dimensions: c.Dimensions,
		logger:     logger,
	}, nil
}

// serializeFloat32 converts a float32 slice to a little-endian byte slice
// suitable for sqlite-vec BLOB format.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// Append adds vectors to the end of the index in the given order.
func (x *Index) Append(ctx context.Context, vecs [][]float32) error {
	if len(vecs) == 0 {
		return nil
	}
	for _, v := range vecs {
		if len(v) != x.dimensions {
			return fmt.Errorf("%w: got %d, index holds %d", vector.ErrDimensionMismatch, len(v), x.dimensions)
		}
	}

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	next := 1
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(rowid), 0) + 1 FROM chunk_embeddings`,
	).Scan(&next); err != nil {
		return fmt.Errorf("reading next position: %w", err)
	}

	for i, v := range vecs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chunk_embeddings(rowid, embedding) VALUES (?, ?)`,
			next+i, serializeFloat32(v),
		); err != nil {
			return fmt.Errorf("inserting embedding at position %d: %w", next+i-1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	x.logger.Debug("appended embeddings to sqlite-vec",
		zap.Int("count", len(vecs)),
	)

	return nil
}

// Search returns the k nearest vectors to the query by ascending L2
// distance. k <= 0 ranks the entire index.
func (x *Index) Search(ctx context.Context, query []float32, k int) ([]vector.Hit, error) {
	if len(query) != x.dimensions {
		return nil, fmt.Errorf("%w: query has %d, index holds %d", vector.ErrDimensionMismatch, len(query), x.dimensions)
	}

	total := x.Len()
	if total == 0 {
		return nil, nil
	}
	if k <= 0 || k > total {
		k = total
	}

	// KNN query via vec0 MATCH; vec0 distances are L2 by default.
	rows, err := x.db.QueryContext(ctx, `
		SELECT rowid, distance
		FROM chunk_embeddings
		WHERE embedding MATCH ?
			AND k = ?
		ORDER BY distance
	`, serializeFloat32(query), k)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var hits []vector.Hit
	for rows.Next() {
		var rowid int64
		var distance float64
		if err := rows.Scan(&rowid, &distance); err != nil {
			return nil, fmt.Errorf("scanning query result: %w", err)
		}
		hits = append(hits, vector.Hit{
			Position: int(rowid) - 1,
			Distance: float32(distance),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating query results: %w", err)
	}

	x.logger.Debug("queried sqlite-vec",
		zap.Int("results", len(hits)),
	)

	return hits, nil
}

// Len returns the number of stored vectors.
func (x *Index) Len() int {
	var n int
	if err := x.db.QueryRow(`SELECT COUNT(*) FROM chunk_embeddings`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Close closes the underlying database.
func (x *Index) Close() error {
	return x.db.Close()
}

var _ vector.Index = (*Index)(nil)
