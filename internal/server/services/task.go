package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/dailyroutine/internal/logging"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/repomanager"
)

// DefaultTaskName is used when a task is created without a name.
const DefaultTaskName = "Untitled"

// TaskInput describes a new task. Tags are ids of the owner's tags;
// assignees are user ids.
type TaskInput struct {
	Name        *string            `json:"name"`
	Status      *models.TaskStatus `json:"status"`
	TagIDs      []string           `json:"tags"`
	AssigneeIDs []string           `json:"assignees"`
}

// TaskUpdate merges into an existing task: a nil pointer or a nil slice
// keeps the current value, an empty slice clears it.
type TaskUpdate struct {
	Name        *string            `json:"name"`
	Description []models.Block     `json:"description"`
	Status      *models.TaskStatus `json:"status"`
	TagIDs      []string           `json:"tags"`
	AssigneeIDs []string           `json:"assignees"`
}

// TaskService manages tasks and their assignees.
type TaskService struct {
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

// NewTaskService constructs a TaskService.
func NewTaskService(m repomanager.RepositoryManager, logger logging.Logger) *TaskService {
	return &TaskService{repomanager: m, logger: logger, now: time.Now}
}

// Create stores a task owned by ownerID. Owner, tags and assignees are
// copied into the task as they are now.
func (s *TaskService) Create(ctx context.Context, ownerID string, in TaskInput) (*models.Task, error) {
	owner, err := s.repomanager.Users().GetByID(ctx, ownerID)
	if err != nil {
		return nil, internal(ctx, s.logger, "create task", err)
	}

	status, err := taskStatus(in.Status)
	if err != nil {
		return nil, err
	}

	name := DefaultTaskName
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		name = strings.TrimSpace(*in.Name)
	}

	tags, err := s.resolveTags(ctx, ownerID, in.TagIDs)
	if err != nil {
		return nil, err
	}
	assignees, err := s.resolveAssignees(ctx, in.AssigneeIDs)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	task := &models.Task{
		ID:    uuid.NewString(),
		Owner: owner.Snapshot(),
		Name:  name,
		Description: []models.Block{{
			ID:   uuid.NewString(),
			Type: models.BlockTypeParagraph,
			Data: models.BlockData{Text: ""},
		}},
		Tags:      tags,
		Assignees: assignees,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repomanager.Tasks().Create(ctx, task); err != nil {
		return nil, internal(ctx, s.logger, "create task", err)
	}
	return task, nil
}

// List returns the tasks userID owns or is assigned to, newest first.
func (s *TaskService) List(ctx context.Context, userID string) ([]models.Task, error) {
	out, err := s.repomanager.Tasks().ListForUser(ctx, userID)
	if err != nil {
		return nil, internal(ctx, s.logger, "list tasks", err)
	}
	return out, nil
}

// Get returns a task by id.
func (s *TaskService) Get(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.repomanager.Tasks().GetByID(ctx, id)
	if err != nil {
		return nil, internal(ctx, s.logger, "get task", err)
	}
	return task, nil
}

// Update applies the non-nil fields of in and bumps UpdatedAt.
func (s *TaskService) Update(ctx context.Context, id string, in TaskUpdate) (*models.Task, error) {
	repo := s.repomanager.Tasks()

	task, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal(ctx, s.logger, "update task", err)
	}

	if in.Name != nil {
		if name := strings.TrimSpace(*in.Name); name != "" {
			task.Name = name
		}
	}
	if in.Description != nil {
		task.Description = in.Description
	}
	if in.Status != nil {
		status, err := taskStatus(in.Status)
		if err != nil {
			return nil, err
		}
		task.Status = status
	}
	if in.TagIDs != nil {
		tags, err := s.resolveTags(ctx, task.Owner.ID, in.TagIDs)
		if err != nil {
			return nil, err
		}
		task.Tags = tags
	}
	if in.AssigneeIDs != nil {
		assignees, err := s.resolveAssignees(ctx, in.AssigneeIDs)
		if err != nil {
			return nil, err
		}
		task.Assignees = assignees
	}

	task.UpdatedAt = s.now().UTC()
	if err := repo.Update(ctx, task); err != nil {
		return nil, internal(ctx, s.logger, "update task", err)
	}
	return task, nil
}

// Delete removes a task. A missing id is reported as not found.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.repomanager.Tasks().Delete(ctx, id); err != nil {
		return internal(ctx, s.logger, "delete task", err)
	}
	return nil
}

// taskStatus maps an absent or empty status to Start and rejects unknown ones.
func taskStatus(in *models.TaskStatus) (models.TaskStatus, error) {
	if in == nil || *in == "" {
		return models.TaskStatusStart, nil
	}
	if !in.Valid() {
		return "", invalid("unknown task status %q", *in)
	}
	return *in, nil
}

// resolveTags copies the owner's tags named by ids, in the order of ids.
func (s *TaskService) resolveTags(ctx context.Context, ownerID string, ids []string) ([]models.Tag, error) {
	out := make([]models.Tag, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	owned, err := s.repomanager.Tags().List(ctx, ownerID)
	if err != nil {
		return nil, internal(ctx, s.logger, "resolve tags", err)
	}
	byID := make(map[string]models.Tag, len(owned))
	for _, t := range owned {
		byID[t.ID] = t
	}
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return nil, notFound("tag %s", id)
		}
		t.UserID = ""
		out = append(out, t)
	}
	return out, nil
}

// resolveAssignees snapshots the users named by ids.
func (s *TaskService) resolveAssignees(ctx context.Context, ids []string) ([]models.UserSnapshot, error) {
	out := make([]models.UserSnapshot, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	found, err := s.repomanager.Users().GetMany(ctx, ids)
	if err != nil {
		return nil, internal(ctx, s.logger, "resolve assignees", err)
	}
	byID := make(map[string]models.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			return nil, notFound("user %s", id)
		}
		out = append(out, u.Snapshot())
	}
	return out, nil
}
