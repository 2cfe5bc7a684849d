package tags

import (
	"context"

	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/users"
)

// EmbeddedRepository stores tags inside the user document.
type EmbeddedRepository struct {
	store users.TagStore
}

func NewEmbeddedRepository(store users.TagStore) *EmbeddedRepository {
	return &EmbeddedRepository{store: store}
}

func (r *EmbeddedRepository) Create(ctx context.Context, userID string, tag models.Tag) error {
	tag.UserID = ""
	return r.store.AddTag(ctx, userID, tag)
}

func (r *EmbeddedRepository) Delete(ctx context.Context, userID, tagID string) (bool, error) {
	return r.store.RemoveTag(ctx, userID, tagID)
}

func (r *EmbeddedRepository) List(ctx context.Context, userID string) ([]models.Tag, error) {
	return r.store.ListTags(ctx, userID)
}
