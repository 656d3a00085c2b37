package persist

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/khrees2412/placement/pkg/models"
)

// WriteDocumentFile writes records to path atomically: the document goes to
// a temp file in the same directory which then replaces path.
func WriteDocumentFile(path string, records []models.Record) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}

	tmp, err := os.CreateTemp(dir, ".placement-*.json")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = EncodeDocument(tmp, records); err != nil {
		return err
	}
	mode := os.FileMode(0644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}
	if err = tmp.Chmod(mode); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}
	return nil
}

// ReadDocumentFile decodes the document at path. A missing file is reported
// with an error matching os.ErrNotExist.
func ReadDocumentFile(path string) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}
	defer f.Close()

	return DecodeDocument(f)
}
