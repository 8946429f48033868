package doc2vec

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// modelState is the gob-serialized form of a trained model. The noise table
// is rebuilt from the counts on load.
type modelState struct {
	VectorSize int
	Vocab      map[string]int
	Counts     []int64
	Syn1       [][]float32
}

// save persists the trained model to cfg.ModelPath. The state is staged to a
// temporary file and atomically renamed so a crash mid-write never leaves a
// half-written model.
func (m *Model) save() error {
	dir := filepath.Dir(m.cfg.ModelPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(m.cfg.ModelPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("staging model file: %w", err)
	}
	defer os.Remove(tmp.Name())

	state := modelState{
		VectorSize: m.cfg.VectorSize,
		Vocab:      m.vocab,
		Counts:     m.counts,
		Syn1:       m.syn1,
	}
	if err := gob.NewEncoder(tmp).Encode(state); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing staged model file: %w", err)
	}

	if err := os.Rename(tmp.Name(), m.cfg.ModelPath); err != nil {
		return fmt.Errorf("committing model file: %w", err)
	}

	return nil
}

// load restores a previously persisted model. Callers treat any failure as
// "stay untrained" rather than fatal.
func (m *Model) load() error {
	f, err := os.Open(m.cfg.ModelPath)
	if err != nil {
		return err
	}
	defer f.Close()

	var state modelState
	if err := gob.NewDecoder(f).Decode(&state); err != nil {
		return fmt.Errorf("decoding model: %w", err)
	}

	if state.VectorSize != m.cfg.VectorSize {
		return fmt.Errorf("model vector size %d does not match configured %d",
			state.VectorSize, m.cfg.VectorSize)
	}
	if len(state.Vocab) == 0 || len(state.Syn1) != len(state.Vocab) || len(state.Counts) != len(state.Vocab) {
		return fmt.Errorf("model state is inconsistent")
	}

	m.vocab = state.Vocab
	m.counts = state.Counts
	m.syn1 = state.Syn1
	m.noise = buildNoiseTable(m.counts)
	m.trained = true

	return nil
}
