package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/dailyroutine/internal/logging"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/repomanager"
)

// TagInput describes a tag to create. ID is generated when empty.
type TagInput struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TagService manages the labels a user attaches to tasks.
type TagService struct {
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

// NewTagService constructs a TagService backed by the tag repository of m.
func NewTagService(m repomanager.RepositoryManager, logger logging.Logger) *TagService {
	return &TagService{repomanager: m, logger: logger}
}

// Create adds a tag for userID. Names are trimmed and must not be empty.
func (s *TagService) Create(ctx context.Context, userID string, in TagInput) (*models.Tag, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("tag name is required")
	}
	if _, err := s.repomanager.Users().GetByID(ctx, userID); err != nil {
		return nil, internal(ctx, s.logger, "create tag", err)
	}

	tag := models.Tag{ID: strings.TrimSpace(in.ID), Name: name, Color: in.Color}
	if tag.ID == "" {
		tag.ID = uuid.NewString()
	}
	if err := s.repomanager.Tags().Create(ctx, userID, tag); err != nil {
		return nil, internal(ctx, s.logger, "create tag", err)
	}
	return &tag, nil
}

// Delete removes a tag. Deleting a missing tag succeeds with Deleted false.
func (s *TagService) Delete(ctx context.Context, userID, tagID string) (*DeleteResult, error) {
	removed, err := s.repomanager.Tags().Delete(ctx, userID, tagID)
	if err != nil {
		return nil, internal(ctx, s.logger, "delete tag", err)
	}
	if !removed {
		return &DeleteResult{Deleted: false, Message: "Tag not found or already deleted"}, nil
	}
	return &DeleteResult{Deleted: true, Message: "Tag deleted successfully"}, nil
}

// List returns the tags of userID in creation order.
func (s *TagService) List(ctx context.Context, userID string) ([]models.Tag, error) {
	out, err := s.repomanager.Tags().List(ctx, userID)
	if err != nil {
		return nil, internal(ctx, s.logger, "list tags", err)
	}
	return out, nil
}
