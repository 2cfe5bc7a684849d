package invites

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
)

type MemoryRepository struct {
	mu      sync.RWMutex
	invites map[string]models.Invite
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{invites: make(map[string]models.Invite)}
}

func (r *MemoryRepository) Create(ctx context.Context, inv *models.Invite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invites[inv.ID] = *inv
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Invite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.invites[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &inv, nil
}

func (r *MemoryRepository) ListBySender(ctx context.Context, senderEmail string) ([]models.Invite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Invite{}
	for _, inv := range r.invites {
		if inv.SenderEmail == senderEmail {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, id string, status models.InviteStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.invites[id]
	if !ok {
		return common.ErrorNotFound
	}
	inv.Status, inv.UpdatedAt = status, at
	r.invites[id] = inv
	return nil
}
