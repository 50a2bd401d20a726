// Package jsonfile persists a generated dataset as one indented JSON document
// and serves it back read-only.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/proSamik/airbnb-analytics/internal/domain"
)

// Writer writes datasets to a fixed path.
type Writer struct{ path string }

func NewWriter(path string) *Writer { return &Writer{path: path} }

func (w *Writer) Path() string { return w.path }

func (w *Writer) WriteDataset(ctx context.Context, ds domain.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return Write(w.path, ds)
}

// Write marshals ds with two-space indentation into a temp file next to path and renames it
// over path. An existing file is replaced; readers see either the old or the new document.
func Write(path string, ds domain.Dataset) (err error) {
	body, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	// CreateTemp opens with 0600; match what a plain create would give.
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}

// Read parses a document produced by Write.
func Read(path string) (domain.Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Dataset{}, err
	}
	var ds domain.Dataset
	if err := json.Unmarshal(b, &ds); err != nil {
		return domain.Dataset{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if ds.Rooms == nil {
		ds.Rooms = map[string][]domain.BookingRecord{}
	}
	return ds, nil
}
