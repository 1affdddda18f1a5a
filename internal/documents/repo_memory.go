package documents

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of DocumentsRepo for dev and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs []MedicalDocument
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Create appends the document.
func (r *MemoryRepo) Create(ctx context.Context, doc MedicalDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, doc)
	return nil
}

// List returns all documents with the same ordering as the Postgres repo:
// document date descending, null dates last, ties on upload time.
func (r *MemoryRepo) List(ctx context.Context) ([]MedicalDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]MedicalDocument, len(r.docs))
	copy(out, r.docs)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].DocumentDate, out[j].DocumentDate
		switch {
		case di == nil && dj == nil:
			return out[i].UploadedAt.After(out[j].UploadedAt)
		case di == nil:
			return false
		case dj == nil:
			return true
		case !di.Equal(*dj):
			return di.After(*dj)
		default:
			return out[i].UploadedAt.After(out[j].UploadedAt)
		}
	})

	return out, nil
}

var _ DocumentsRepo = (*MemoryRepo)(nil)
