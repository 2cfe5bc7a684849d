package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
)

func TestTaskService_CreateDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "Alice", "alice@example.com")

	task, err := env.tasks.Create(ctx, owner.ID, TaskInput{})
	require.NoError(t, err)

	assert.Equal(t, DefaultTaskName, task.Name)
	assert.Equal(t, models.TaskStatusStart, task.Status)
	assert.Equal(t, owner.ID, task.Owner.ID)
	assert.Equal(t, "Alice", task.Owner.Name)
	require.Len(t, task.Description, 1)
	assert.NotEmpty(t, task.Description[0].ID)
	assert.Equal(t, models.BlockTypeParagraph, task.Description[0].Type)
	assert.Empty(t, task.Description[0].Data.Text)
	assert.Empty(t, task.Tags)
	assert.Empty(t, task.Assignees)

	got, err := env.tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(task, got); diff != "" {
		t.Errorf("stored task mismatch (-want +got):\n%s", diff)
	}
}

func TestTaskService_CreateResolvesTagsAndAssignees(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")

	tag, err := env.tags.Create(ctx, owner.ID, TagInput{Name: "Work", Color: "#123456"})
	require.NoError(t, err)

	task, err := env.tasks.Create(ctx, owner.ID, TaskInput{
		Name:        ptr("Write report"),
		Status:      ptr(models.TaskStatusInProcess),
		TagIDs:      []string{tag.ID},
		AssigneeIDs: []string{bob.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []models.Tag{{ID: tag.ID, Name: "Work", Color: "#123456"}}, task.Tags)
	require.Len(t, task.Assignees, 1)
	assert.Equal(t, models.UserSnapshot{ID: bob.ID, Name: "Bob", Email: "bob@example.com", Avatar: bob.Avatar}, task.Assignees[0])

	_, err = env.tasks.Create(ctx, owner.ID, TaskInput{TagIDs: []string{"nope"}})
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = env.tasks.Create(ctx, owner.ID, TaskInput{AssigneeIDs: []string{"nobody"}})
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = env.tasks.Create(ctx, owner.ID, TaskInput{Status: ptr(models.TaskStatus("Someday"))})
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = env.tasks.Create(ctx, "missing", TaskInput{})
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestTaskService_SnapshotsAreNotRefreshed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "Alice", "alice@example.com")

	task, err := env.tasks.Create(ctx, owner.ID, TaskInput{})
	require.NoError(t, err)

	_, err = env.users.UpdateProfile(ctx, owner.ID, ProfileUpdate{Name: ptr("Alice Renamed")})
	require.NoError(t, err)

	got, err := env.tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Owner.Name)
}

func TestTaskService_ListOwnedAndAssigned(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")
	carol := env.register(t, "Carol", "carol@example.com")

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	create := func(owner string, offset time.Duration, in TaskInput) *models.Task {
		env.tasks.now = func() time.Time { return base.Add(offset) }
		task, err := env.tasks.Create(ctx, owner, in)
		require.NoError(t, err)
		return task
	}

	own := create(alice.ID, 0, TaskInput{Name: ptr("own")})
	assigned := create(bob.ID, time.Minute, TaskInput{Name: ptr("assigned"), AssigneeIDs: []string{alice.ID}})
	create(carol.ID, 2*time.Minute, TaskInput{Name: ptr("unrelated")})

	list, err := env.tasks.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, assigned.ID, list[0].ID)
	assert.Equal(t, own.ID, list[1].ID)
}

func TestTaskService_UpdateMerges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "Alice", "alice@example.com")
	tag, err := env.tags.Create(ctx, owner.ID, TagInput{Name: "Work"})
	require.NoError(t, err)

	task, err := env.tasks.Create(ctx, owner.ID, TaskInput{
		Name:   ptr("Draft"),
		Status: ptr(models.TaskStatusOnHold),
		TagIDs: []string{tag.ID},
	})
	require.NoError(t, err)

	updated, err := env.tasks.Update(ctx, task.ID, TaskUpdate{Name: ptr("Final")})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Name)
	assert.Equal(t, models.TaskStatusOnHold, updated.Status)
	assert.Len(t, updated.Tags, 1)
	assert.Equal(t, task.Description, updated.Description)

	updated, err = env.tasks.Update(ctx, task.ID, TaskUpdate{Status: ptr(models.TaskStatus("")), TagIDs: []string{}})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusStart, updated.Status)
	assert.Empty(t, updated.Tags)

	blocks := []models.Block{{ID: "b1", Type: models.BlockTypeParagraph, Data: models.BlockData{Text: "hello"}}}
	updated, err = env.tasks.Update(ctx, task.ID, TaskUpdate{Description: blocks})
	require.NoError(t, err)
	assert.Equal(t, blocks, updated.Description)

	_, err = env.tasks.Update(ctx, task.ID, TaskUpdate{Status: ptr(models.TaskStatus("Later"))})
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = env.tasks.Update(ctx, "missing", TaskUpdate{})
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestTaskService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "Alice", "alice@example.com")
	task, err := env.tasks.Create(ctx, owner.ID, TaskInput{})
	require.NoError(t, err)

	require.NoError(t, env.tasks.Delete(ctx, task.ID))
	require.ErrorIs(t, env.tasks.Delete(ctx, task.ID), common.ErrorNotFound)

	_, err = env.tasks.Get(ctx, task.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
}
