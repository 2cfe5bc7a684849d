package tags

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
)

// MemoryRepository is the standalone-collection strategy kept in memory.
type MemoryRepository struct {
	mu   sync.RWMutex
	tags map[string][]models.Tag
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tags: make(map[string][]models.Tag)}
}

func (r *MemoryRepository) Create(ctx context.Context, userID string, tag models.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tags[userID] {
		if t.ID == tag.ID {
			return fmt.Errorf("%w: tag %s already exists", common.ErrorConflict, tag.ID)
		}
	}
	tag.UserID = userID
	r.tags[userID] = append(r.tags[userID], tag)
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, userID, tagID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.tags[userID]
	for i, t := range list {
		if t.ID == tagID {
			r.tags[userID] = append(list[:i:i], list[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) List(ctx context.Context, userID string) ([]models.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]models.Tag{}, r.tags[userID]...), nil
}
