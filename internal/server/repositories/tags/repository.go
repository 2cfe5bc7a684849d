// Package tags declares the tag store contract. Tags live either in an
// array on the user document (EmbeddedRepository) or in a standalone
// table/collection keyed by user id; both satisfy Repository.
package tags

import (
	"context"

	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
)

type Repository interface {
	// Create returns common.ErrorConflict when the user already has a tag
	// with the same id.
	Create(ctx context.Context, userID string, tag models.Tag) error
	// Delete reports whether a tag was removed; a missing tag is not an error.
	Delete(ctx context.Context, userID, tagID string) (bool, error)
	List(ctx context.Context, userID string) ([]models.Tag, error)
}
