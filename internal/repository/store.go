package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// document is a single JSON table on disk. Every read and write covers
// the whole mapping; Update serializes read-modify-write cycles under
// the document mutex so concurrent handlers cannot lose each other's
// changes.
type document[T any] struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	empty  func() T
}

func newDocument[T any](dir, name string, logger *slog.Logger, empty func() T) *document[T] {
	return &document[T]{
		path:   filepath.Join(dir, name),
		logger: logger,
		empty:  empty,
	}
}

// Get returns the decoded table. The mapping is always usable, even
// when an error is returned: a damaged file heals to the empty mapping
// and the error reports only a failed rewrite.
func (d *document[T]) Get() (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.load()
}

func (d *document[T]) Put(value T) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.save(value)
}

func (d *document[T]) Update(fn func(T) T) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	value, _ := d.load()
	return d.save(fn(value))
}

func (d *document[T]) load() (T, error) {
	data, err := os.ReadFile(d.path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		d.logger.Debug("Table file missing, creating empty", "path", d.path)
		return d.reset()
	default:
		if info, statErr := os.Stat(d.path); statErr == nil && info.IsDir() {
			d.logger.Warn("Directory found in place of table file, recreating", "path", d.path)
			if rmErr := os.RemoveAll(d.path); rmErr != nil {
				return d.empty(), fmt.Errorf("failed to replace directory %s: %w", d.path, rmErr)
			}
			return d.reset()
		}
		d.logger.Warn("Table unreadable, resetting to empty", "path", d.path, "error", err)
		return d.reset()
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		d.logger.Warn("Table corrupted, resetting to empty", "path", d.path, "error", err)
		return d.reset()
	}
	return value, nil
}

func (d *document[T]) reset() (T, error) {
	value := d.empty()
	if err := d.save(value); err != nil {
		return value, fmt.Errorf("failed to rewrite %s: %w", d.path, err)
	}
	return value, nil
}

// save writes the table atomically: temp file in the same directory,
// then rename over the target.
func (d *document[T]) save(value T) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", d.path, err)
	}

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), d.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", d.path, err)
	}
	return nil
}
