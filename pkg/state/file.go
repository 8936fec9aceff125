package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/tickergrid/pkg/errors"
)

// FileBackend is a file-based backend for CLI use.
// Documents are stored as JSON files in a config directory, one per key.
type FileBackend struct {
	mu      sync.RWMutex
	baseDir string
}

// DefaultDir returns the default state directory,
// ~/.config/tickergrid/state (or $XDG_CONFIG_HOME/tickergrid/state).
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tickergrid", "state"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "tickergrid", "state"), nil
}

// NewFileBackend creates a new file-based backend.
// If baseDir is empty, defaults to [DefaultDir].
func NewFileBackend(baseDir string) (*FileBackend, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileBackend{baseDir: baseDir}, nil
}

// Name implements Backend.
func (b *FileBackend) Name() string { return "file" }

// Path returns the file a key is stored in.
func (b *FileBackend) Path(key string) (string, error) {
	if err := errors.ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(b.baseDir, strings.ReplaceAll(key, ":", "_")+".json"), nil
}

// Dir returns the base directory for state files.
func (b *FileBackend) Dir() string {
	return b.baseDir
}

// Load implements Backend.
func (b *FileBackend) Load(ctx context.Context, key string) (*State, error) {
	path, err := b.Path(key)
	if err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, filepath.Base(path), err)
	}
	return &s, nil
}

// Save implements Backend. The file is replaced atomically.
func (b *FileBackend) Save(ctx context.Context, key string, s *State) error {
	path, err := b.Path(key)
	if err != nil {
		return err
	}
	if s == nil {
		s = &State{}
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	tmp, err := os.CreateTemp(b.baseDir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return fmt.Errorf("chmod state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename state file: %w", err)
	}
	return nil
}

// Delete implements Backend.
func (b *FileBackend) Delete(ctx context.Context, key string) error {
	path, err := b.Path(key)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}

// Clear removes every state file in the directory and returns how many
// were removed.
func (b *FileBackend) Clear(ctx context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries, err := os.ReadDir(b.baseDir)
	if err != nil {
		return 0, fmt.Errorf("read state dir: %w", err)
	}

	n := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(b.baseDir, entry.Name())); err != nil {
			return n, fmt.Errorf("remove state file: %w", err)
		}
		n++
	}
	return n, nil
}

// Close implements Backend.
func (b *FileBackend) Close() error { return nil }

var _ Backend = (*FileBackend)(nil)
