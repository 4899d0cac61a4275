package repositories

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"journeycompass/internal/domain"
	"journeycompass/internal/domain/models"
)

// FileDocumentRepo keeps the document as one JSON file. Writes go through a
// temp file and a rename so a crash never leaves a half-written document.
type FileDocumentRepo struct {
	Path string

	mu sync.Mutex
}

func NewFileDocumentRepo(path string) *FileDocumentRepo {
	return &FileDocumentRepo{Path: path}
}

func (r *FileDocumentRepo) Load(ctx context.Context) (models.Document, error) {
	if err := ctx.Err(); err != nil {
		return models.Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := os.ReadFile(r.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.NewDocument(), nil
	}
	if err != nil {
		return models.Document{}, domain.StorageError{Op: "read", Err: err}
	}
	return decodeDocument(raw)
}

func (r *FileDocumentRepo) Save(ctx context.Context, doc models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := encodeDocument(doc)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.StorageError{Op: "write", Err: err}
	}
	tmp, err := os.CreateTemp(dir, ".journey-compass-*.tmp")
	if err != nil {
		return domain.StorageError{Op: "write", Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return domain.StorageError{Op: "write", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return domain.StorageError{Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return domain.StorageError{Op: "write", Err: err}
	}
	if err := os.Rename(tmpName, r.Path); err != nil {
		return domain.StorageError{Op: "write", Err: err}
	}
	return nil
}
