// Package dotdir manages the .papershelf/ and ~/.papershelf directories.
//
// The dot directory holds the service's durable artifacts: the config file,
// the trained embedding model, the vector index and registry snapshots, and
// uploaded source documents.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of the papershelf directory.
	dirName = ".papershelf"

	// dataSubdir holds the store and model artifacts.
	dataSubdir = "data"

	// uploadsSubdir holds uploaded source documents.
	uploadsSubdir = "uploads"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .papershelf/ directory.
// Order of precedence is as follows:
//  1. Provided override
//  2. Local ./.papershelf/ dir
//  3. Home ~/.papershelf/ dir
//  4. If none found, attempt to create ~/.papershelf/ dir
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, dirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating papershelf directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// DataDir resolves and creates the data subdirectory under the target dot dir.
func (m *Manager) DataDir(overrideDir string) (string, error) {
	return m.subdir(overrideDir, dataSubdir)
}

// UploadsDir resolves and creates the uploads subdirectory under the target dot dir.
func (m *Manager) UploadsDir(overrideDir string) (string, error) {
	return m.subdir(overrideDir, uploadsSubdir)
}

func (m *Manager) subdir(overrideDir, name string) (string, error) {
	target, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(target, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s directory: %w", name, err)
	}

	return dir, nil
}

// localDirExists checks whether a .papershelf/ directory exists in the current
// working directory.
func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, dirName))
	return err == nil && info.IsDir()
}
