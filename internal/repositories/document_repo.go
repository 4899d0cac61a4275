package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"journeycompass/internal/domain"
	"journeycompass/internal/domain/models"
	"journeycompass/internal/metrics"

	"go.uber.org/zap"
)

// DocumentStore is a backend that persists the whole document under one key.
// A missing document is not an error: Load returns a fresh default.
type DocumentStore interface {
	Load(ctx context.Context) (models.Document, error)
	Save(ctx context.Context, doc models.Document) error
}

// DocumentRepo applies the recovery policy on top of a backend. Load and Save
// are lenient: unreadable state loads as a fresh document and failed writes
// are only logged. LoadForWrite and Persist return backend failures.
type DocumentRepo struct {
	Store DocumentStore
	Log   *zap.Logger
}

func (r DocumentRepo) log() *zap.Logger {
	if r.Log != nil {
		return r.Log
	}
	return zap.NewNop()
}

// Load never fails. Corrupt or unreachable storage yields a default document.
func (r DocumentRepo) Load(ctx context.Context) models.Document {
	if r.Store == nil {
		return models.NewDocument()
	}
	doc, err := r.Store.Load(ctx)
	if err != nil {
		metrics.StoreFailures.WithLabelValues("load").Inc()
		r.log().Warn("document load failed, using default document", zap.Error(err))
		return models.NewDocument()
	}
	return doc.Normalize()
}

// LoadForWrite is the load used by read-modify-write paths. Undecodable data
// still yields a default document; a backend that could not be read returns a
// StorageError so the caller does not save over the stored bookings.
func (r DocumentRepo) LoadForWrite(ctx context.Context) (models.Document, error) {
	if r.Store == nil {
		return models.NewDocument(), nil
	}
	doc, err := r.Store.Load(ctx)
	if err == nil {
		return doc.Normalize(), nil
	}

	metrics.StoreFailures.WithLabelValues("load").Inc()
	var storageErr domain.StorageError
	if errors.As(err, &storageErr) && storageErr.Op == "decode" {
		r.log().Warn("stored document is unreadable, starting from default document", zap.Error(err))
		return models.NewDocument(), nil
	}

	r.log().Error("document load failed, write aborted", zap.Error(err))
	if errors.As(err, &storageErr) {
		return models.Document{}, err
	}
	return models.Document{}, domain.StorageError{Op: "read", Err: err}
}

// Save reports whether the document reached the backend.
func (r DocumentRepo) Save(ctx context.Context, doc models.Document) bool {
	return r.Persist(ctx, doc) == nil
}

// Persist writes the document and returns the backend failure, if any.
func (r DocumentRepo) Persist(ctx context.Context, doc models.Document) error {
	if r.Store == nil {
		return domain.StorageError{Op: "write", Err: errors.New("no document store configured")}
	}
	if err := r.Store.Save(ctx, doc.Normalize()); err != nil {
		metrics.StoreFailures.WithLabelValues("save").Inc()
		r.log().Warn("document save failed, change kept in memory only", zap.Error(err))
		if !domain.IsStorage(err) {
			err = domain.StorageError{Op: "write", Err: err}
		}
		return err
	}
	return nil
}

func decodeDocument(raw []byte) (models.Document, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return models.NewDocument(), nil
	}
	var doc models.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.Document{}, domain.StorageError{Op: "decode", Err: err}
	}
	return doc.Normalize(), nil
}

func encodeDocument(doc models.Document) ([]byte, error) {
	raw, err := json.Marshal(doc.Normalize())
	if err != nil {
		return nil, domain.StorageError{Op: "encode", Err: err}
	}
	return raw, nil
}
