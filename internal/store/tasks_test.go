package store_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/kanban-dev/kanban/internal/apperr"
	"github.com/kanban-dev/kanban/internal/models"
	"github.com/kanban-dev/kanban/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	project := mustCreateProject(t, s, alice, "board")

	task, err := s.CreateTask(ctx, project.ID, store.NewTask{Title: "  write tests ", Description: ptr("all of them")})
	require.NoError(t, err)

	assert.Equal(t, "write tests", task.Title)
	assert.Equal(t, "all of them", *task.Description)
	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.Equal(t, project.ID, task.ProjectID)

	_, err = s.CreateTask(ctx, 9999, store.NewTask{Title: "nowhere"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = s.CreateTask(ctx, project.ID, store.NewTask{Title: "x", Status: "archived"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestGetTask_ScopedToProject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	p1 := mustCreateProject(t, s, alice, "p1")
	p2 := mustCreateProject(t, s, alice, "p2")
	task := mustCreateTask(t, s, p1, "t")

	got, err := s.GetTask(ctx, p1.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	_, err = s.GetTask(ctx, p2.ID, task.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.ErrorIs(t, s.DeleteTask(ctx, p2.ID, task.ID), apperr.ErrNotFound)
}

func TestUpdateTask_Partial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	project := mustCreateProject(t, s, alice, "board")

	task, err := s.CreateTask(ctx, project.ID, store.NewTask{Title: "draft", Description: ptr("first")})
	require.NoError(t, err)

	updated, err := s.UpdateTask(ctx, project.ID, task.ID, store.TaskUpdate{Status: ptr(models.TaskStatusCompleted)})
	require.NoError(t, err)
	assert.Equal(t, "draft", updated.Title)
	assert.Equal(t, "first", *updated.Description)
	assert.Equal(t, models.TaskStatusCompleted, updated.Status)

	updated, err = s.UpdateTask(ctx, project.ID, task.ID, store.TaskUpdate{Title: ptr("final")})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, models.TaskStatusCompleted, updated.Status)

	_, err = s.UpdateTask(ctx, project.ID, task.ID, store.TaskUpdate{Status: ptr(models.TaskStatus("archived"))})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = s.UpdateTask(ctx, project.ID, task.ID, store.TaskUpdate{Title: ptr("")})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDeleteTask(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	project := mustCreateProject(t, s, alice, "board")
	task := mustCreateTask(t, s, project, "t")

	require.NoError(t, s.DeleteTask(ctx, project.ID, task.ID))

	_, err := s.GetTask(ctx, project.ID, task.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, s.DeleteTask(ctx, project.ID, task.ID), apperr.ErrNotFound)
}

func TestListTasksForProject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	project := mustCreateProject(t, s, alice, "board")
	other := mustCreateProject(t, s, alice, "other")

	mustCreateTask(t, s, project, "a")
	b, err := s.CreateTask(ctx, project.ID, store.NewTask{Title: "b", Status: models.TaskStatusFailed})
	require.NoError(t, err)
	mustCreateTask(t, s, other, "c")

	tasks, err := s.ListTasksForProject(ctx, project.ID, store.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].Title)
	assert.Equal(t, "b", tasks[1].Title)

	failed, err := s.ListTasksForProject(ctx, project.ID, store.TaskFilter{Status: ptr(models.TaskStatusFailed)})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, b.ID, failed[0].ID)
}

func TestUpdateTask_LogsTerminalTransitions(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	t.Cleanup(func() { slog.SetDefault(previous) })

	s := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	project := mustCreateProject(t, s, alice, "board")
	task := mustCreateTask(t, s, project, "ship")

	_, err := s.UpdateTask(ctx, project.ID, task.ID, store.TaskUpdate{Status: ptr(models.TaskStatusInProgress)})
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	_, err = s.UpdateTask(ctx, project.ID, task.ID, store.TaskUpdate{Status: ptr(models.TaskStatusCompleted)})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "task finished")
	assert.Contains(t, buf.String(), "to=completed")

	buf.Reset()
	_, err = s.UpdateTask(ctx, project.ID, task.ID, store.TaskUpdate{Status: ptr(models.TaskStatusFailed)})
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	_, err = s.UpdateTask(ctx, project.ID, task.ID, store.TaskUpdate{Status: ptr(models.TaskStatusPending)})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "task reopened")
	assert.Contains(t, buf.String(), "from=failed")
}
