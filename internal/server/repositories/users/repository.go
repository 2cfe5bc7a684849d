// Package users declares the account store contract and its Postgres,
// MongoDB and in-memory implementations.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
)

// Repository persists user accounts.
//
// Implementations return common.ErrorNotFound when the addressed user does
// not exist and common.ErrorConflict when a write would duplicate an email
// address or an embedded tag id.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetMany returns the users that exist among ids, in the order of ids.
	GetMany(ctx context.Context, ids []string) ([]models.User, error)

	UpdateProfile(ctx context.Context, id, name, email string, at time.Time) error
	UpdatePassword(ctx context.Context, id, hash string, at time.Time) error
	UpdateAvatar(ctx context.Context, id string, avatar models.Avatar, at time.Time) error
	SetVerified(ctx context.Context, id string, at time.Time) error

	// AddContact inserts contactID into the contact set; adding an existing
	// contact is a no-op.
	AddContact(ctx context.Context, id, contactID string) error
	RemoveContact(ctx context.Context, id, contactID string) error
	// ListContacts pages over the contacts that still resolve to an account,
	// in the order they were added. Dangling ids never shorten a page.
	ListContacts(ctx context.Context, id string, skip, limit int) ([]models.PublicUser, error)

	// Search matches query case-insensitively as a substring of name or
	// email, ordered by creation time then id.
	Search(ctx context.Context, query string, skip, limit int) ([]models.PublicUser, error)

	TagStore
}

// TagStore is the embedded tag array on the user document.
type TagStore interface {
	AddTag(ctx context.Context, userID string, tag models.Tag) error
	// RemoveTag reports whether a tag was removed.
	RemoveTag(ctx context.Context, userID, tagID string) (bool, error)
	ListTags(ctx context.Context, userID string) ([]models.Tag, error)
}

// orderByIDs returns the users in the order of ids, skipping unknown ids.
func orderByIDs[T any](ids []string, items []T, key func(T) string) []T {
	byID := make(map[string]T, len(items))
	for _, it := range items {
		byID[key(it)] = it
	}
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

func window[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}
