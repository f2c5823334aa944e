// Package memory provides a process-local FactRepository for tests and
// single-instance development runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"statesapi/application/ports"
	"statesapi/domain/core/entities"
	"statesapi/domain/core/valueobjects"
)

// FactRepository keeps fact documents in a map guarded by a RWMutex.
// Documents are copied on the way in and out so callers never share state
// with the store.
type FactRepository struct {
	mu   sync.RWMutex
	docs map[string]*entities.FactDocument
}

// NewFactRepository creates an empty in-memory repository
func NewFactRepository() *FactRepository {
	return &FactRepository{docs: make(map[string]*entities.FactDocument)}
}

// FindAll returns every document ordered by state code
func (r *FactRepository) FindAll(ctx context.Context) ([]*entities.FactDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.FactDocument, 0, len(r.docs))
	for _, doc := range r.docs {
		out = append(out, clone(doc))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StateCode().String() < out[j].StateCode().String()
	})
	return out, nil
}

// FindByCode returns the document for a state or ports.ErrDocumentNotFound
func (r *FactRepository) FindByCode(ctx context.Context, code valueobjects.StateCode) (*entities.FactDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[code.String()]
	if !ok {
		return nil, ports.ErrDocumentNotFound
	}
	return clone(doc), nil
}

// Create inserts a new document
func (r *FactRepository) Create(ctx context.Context, doc *entities.FactDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := doc.StateCode().String()
	if _, exists := r.docs[key]; exists {
		return ports.ErrDocumentExists
	}
	r.docs[key] = clone(doc)
	return nil
}

// Save upserts the whole document
func (r *FactRepository) Save(ctx context.Context, doc *entities.FactDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs[doc.StateCode().String()] = clone(doc)
	return nil
}

// Count returns the number of stored documents
func (r *FactRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.docs)), nil
}

// InsertMany inserts all documents or none when any state already has one
func (r *FactRepository) InsertMany(ctx context.Context, docs []*entities.FactDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, doc := range docs {
		if _, exists := r.docs[doc.StateCode().String()]; exists {
			return ports.ErrDocumentExists
		}
	}
	for _, doc := range docs {
		r.docs[doc.StateCode().String()] = clone(doc)
	}
	return nil
}

// Ping always succeeds
func (r *FactRepository) Ping(ctx context.Context) error {
	return nil
}

func clone(doc *entities.FactDocument) *entities.FactDocument {
	copied, _ := entities.ReconstructFactDocument(doc.StateCode().String(), doc.Facts(), doc.UpdatedAt())
	return copied
}

var _ ports.FactRepository = (*FactRepository)(nil)
