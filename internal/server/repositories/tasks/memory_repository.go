package tasks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	tasks map[string]*models.Task
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tasks: make(map[string]*models.Task)}
}

func cloneTask(t *models.Task) *models.Task {
	c := *t
	c.Description = append([]models.Block{}, t.Description...)
	c.Tags = append([]models.Tag{}, t.Tags...)
	c.Assignees = append([]models.UserSnapshot{}, t.Assignees...)
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[task.ID]; ok {
		return fmt.Errorf("%w: task %s already exists", common.ErrorConflict, task.ID)
	}
	r.tasks[task.ID] = cloneTask(task)
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneTask(t), nil
}

func (r *MemoryRepository) ListForUser(ctx context.Context, userID string) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Task{}
	for _, t := range r.tasks {
		if involves(t, userID) {
			out = append(out, *cloneTask(t))
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

func (r *MemoryRepository) Update(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.tasks[task.ID]
	if !ok {
		return common.ErrorNotFound
	}
	next := cloneTask(task)
	next.Owner, next.CreatedAt = cur.Owner, cur.CreatedAt
	r.tasks[task.ID] = next
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.tasks, id)
	return nil
}
