package repositories

import (
	"context"
	"sync"

	"journeycompass/internal/domain/models"
)

// MemoryDocumentRepo keeps the encoded document in memory. Every Load decodes
// a fresh copy, so callers can mutate what they get back.
type MemoryDocumentRepo struct {
	mu  sync.RWMutex
	raw []byte

	// FailReads and FailWrites make Load and Save return an error; used to
	// exercise the recovery policy.
	FailReads  error
	FailWrites error
}

func NewMemoryDocumentRepo() *MemoryDocumentRepo {
	return &MemoryDocumentRepo{}
}

func (r *MemoryDocumentRepo) Load(ctx context.Context) (models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.FailReads != nil {
		return models.Document{}, r.FailReads
	}
	return decodeDocument(r.raw)
}

func (r *MemoryDocumentRepo) Save(ctx context.Context, doc models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWrites != nil {
		return r.FailWrites
	}
	raw, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	r.raw = raw
	return nil
}

// SetRaw replaces the stored bytes as-is.
func (r *MemoryDocumentRepo) SetRaw(raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.raw = append([]byte(nil), raw...)
}

// Raw returns a copy of the stored bytes.
func (r *MemoryDocumentRepo) Raw() []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]byte(nil), r.raw...)
}
