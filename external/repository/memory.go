package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/foxseedlab/leopard/internal/repository"
)

// MemoryRepository keeps transcripts for the lifetime of the process.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]repository.Transcript
	order []string
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID: make(map[string]repository.Transcript),
		now:  time.Now,
	}
}

func (r *MemoryRepository) InsertTranscript(_ context.Context, input repository.InsertTranscriptInput) (*repository.Transcript, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	t := repository.Transcript{
		ID:            id,
		Source:        input.Source,
		Mode:          input.Mode,
		Engine:        input.Engine,
		EngineVersion: input.EngineVersion,
		Text:          input.Text,
		ElapsedMillis: input.ElapsedMillis,
		CreatedAt:     r.now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id] = t
	r.order = append(r.order, id)
	return &t, nil
}

func (r *MemoryRepository) GetTranscript(_ context.Context, id string) (*repository.Transcript, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *MemoryRepository) ListRecentTranscripts(_ context.Context, limit int) ([]repository.Transcript, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || len(r.order) == 0 {
		return nil, nil
	}
	list := make([]repository.Transcript, 0, min(limit, len(r.order)))
	for i := len(r.order) - 1; i >= 0 && len(list) < limit; i-- {
		list = append(list, r.byID[r.order[i]])
	}
	return list, nil
}

func newID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
