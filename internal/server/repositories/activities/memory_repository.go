package activities

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
)

type MemoryRepository struct {
	mu      sync.RWMutex
	entries []models.Activity
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(ctx context.Context, a *models.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *a
	c.Segments = append([]models.Segment{}, a.Segments...)
	r.entries = append(r.entries, c)
	return nil
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID string, skip, limit int) ([]models.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var mine []models.Activity
	for _, a := range r.entries {
		if a.UserID == userID {
			mine = append(mine, a)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].CreatedAt.After(mine[j].CreatedAt)
	})

	if skip >= len(mine) {
		return []models.Activity{}, nil
	}
	mine = mine[skip:]
	if limit < len(mine) {
		mine = mine[:limit]
	}
	return mine, nil
}
