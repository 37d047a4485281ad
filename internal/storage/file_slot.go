package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileSlot keeps every slot in one JSON object file (key → string value),
// the on-disk shape of a local storage dump. Each write rewrites the file
// through a temp file and rename.
type FileSlot struct {
	path string
	mu   sync.Mutex
}

// NewFileSlot creates a FileSlot backed by path. The file is created on first write.
func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

// Path returns the backing file path.
func (f *FileSlot) Path() string { return f.path }

func (f *FileSlot) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	all, err := f.readAll()
	if err != nil {
		return "", err
	}
	v, ok := all[key]
	if !ok {
		return "", fmt.Errorf("slot %q: %w", key, ErrNotFound)
	}
	return v, nil
}

func (f *FileSlot) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	all, err := f.readAll()
	if err != nil {
		return err
	}
	all[key] = value
	return f.writeAll(all)
}

// UpdatedAt reports the file's modification time for a stored key. Every
// key shares the file, so this is the time of the last write to any slot.
func (f *FileSlot) UpdatedAt(_ context.Context, key string) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	all, err := f.readAll()
	if err != nil {
		return time.Time{}, err
	}
	if _, ok := all[key]; !ok {
		return time.Time{}, fmt.Errorf("slot %q: %w", key, ErrNotFound)
	}
	info, err := os.Stat(f.path)
	if err != nil {
		return time.Time{}, fmt.Errorf("reading state file: %w", err)
	}
	return info.ModTime().UTC(), nil
}

func (f *FileSlot) readAll() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("reading state file: %w", err)
	}
	all := make(map[string]string)
	if len(data) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parsing state file %s: %w", f.path, err)
	}
	return all, nil
}

func (f *FileSlot) writeAll(all map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state file: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp state file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}
