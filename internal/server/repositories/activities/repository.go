// Package activities stores the append-only activity feed.
package activities

import (
	"context"

	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Activity) error
	// ListByUser returns a user's entries newest first.
	ListByUser(ctx context.Context, userID string, skip, limit int) ([]models.Activity, error)
}
