package events

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	events map[string]*models.Event
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{events: make(map[string]*models.Event)}
}

func cloneEvent(e *models.Event) *models.Event {
	c := *e
	c.AttendeeIDs = append([]string{}, e.AttendeeIDs...)
	c.Attendees = nil
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, e *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[e.ID]; ok {
		return fmt.Errorf("%w: event %s already exists", common.ErrorConflict, e.ID)
	}
	r.events[e.ID] = cloneEvent(e)
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.events[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneEvent(e), nil
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID string) ([]models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Event{}
	for _, e := range r.events {
		if e.UserID == userID {
			out = append(out, *cloneEvent(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, e *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.events[e.ID]
	if !ok {
		return common.ErrorNotFound
	}
	next := cloneEvent(e)
	next.UserID, next.CreatedAt = cur.UserID, cur.CreatedAt
	r.events[e.ID] = next
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[id]; !ok {
		return false, nil
	}
	delete(r.events, id)
	return true, nil
}
