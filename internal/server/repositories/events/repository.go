// Package events declares the calendar event store contract and its
// implementations. Only attendee ids are stored; attendee identities are
// resolved by the service on read.
package events

import (
	"context"

	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	// ListByUser returns the events owned by userID ordered by creation time.
	ListByUser(ctx context.Context, userID string) ([]models.Event, error)
	// Update replaces the mutable fields; common.ErrorNotFound when absent.
	Update(ctx context.Context, event *models.Event) error
	// Delete reports whether the event existed.
	Delete(ctx context.Context, id string) (bool, error)
}
