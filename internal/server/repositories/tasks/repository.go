// Package tasks declares the task store contract and its implementations.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	// ListForUser returns tasks owned by or assigned to userID, newest first.
	ListForUser(ctx context.Context, userID string) ([]models.Task, error)
	// Update replaces the mutable fields of an existing task.
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
}

// involves reports whether userID owns or is assigned to t.
func involves(t *models.Task, userID string) bool {
	if t.Owner.ID == userID {
		return true
	}
	for _, a := range t.Assignees {
		if a.ID == userID {
			return true
		}
	}
	return false
}
