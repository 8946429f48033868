package store

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/papershelf/papershelf/pkg/vector"
)

const (
	registryFile = "registry.gob"
	indexFile    = "index.gob"
)

type registryState struct {
	Documents map[string]*Document
	Tags      []string
}

// save writes the registry, and the index snapshot when the index
// supports snapshots, into DataDir. Each artifact is staged to a temp
// file and renamed into place so a crash mid-write leaves the previous
// state intact.
func (s *Store) save() error {
	if s.cfg.DataDir == "" {
		return nil
	}

	state := registryState{
		Documents: s.docs,
		Tags:      s.tags,
	}
	if err := writeGob(filepath.Join(s.cfg.DataDir, registryFile), state); err != nil {
		return fmt.Errorf("writing registry: %w", err)
	}

	snap, ok := s.index.(vector.Snapshotter)
	if !ok {
		return nil
	}
	if err := writeGob(filepath.Join(s.cfg.DataDir, indexFile), snap.Snapshot()); err != nil {
		return fmt.Errorf("writing index snapshot: %w", err)
	}

	return nil
}

// load restores a previously saved state. Any failure leaves the store
// empty rather than failing construction.
func (s *Store) load() {
	if s.cfg.DataDir == "" {
		return
	}

	path := filepath.Join(s.cfg.DataDir, registryFile)
	if _, err := os.Stat(path); err != nil {
		return
	}

	var state registryState
	if err := readGob(path, &state); err != nil {
		s.logger.Warn("could not load registry, starting empty",
			zap.String("path", path),
			zap.Error(err))
		return
	}

	if snap, ok := s.index.(vector.Snapshotter); ok {
		var vecs [][]float32
		indexPath := filepath.Join(s.cfg.DataDir, indexFile)
		if err := readGob(indexPath, &vecs); err != nil {
			s.logger.Warn("could not load index snapshot, starting empty",
				zap.String("path", indexPath),
				zap.Error(err))
			return
		}
		if err := snap.Restore(vecs); err != nil {
			s.logger.Warn("could not restore index snapshot, starting empty",
				zap.String("path", indexPath),
				zap.Error(err))
			return
		}
	}

	s.docs = state.Documents
	if s.docs == nil {
		s.docs = make(map[string]*Document)
	}
	s.tags = state.Tags

	s.logger.Info("store state loaded",
		zap.Int("documents", len(s.docs)),
		zap.Int("index_size", s.index.Len()))
}

func writeGob(path string, v any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(v); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func readGob(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gob.NewDecoder(f).Decode(v)
}
