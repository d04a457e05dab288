package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/kanban-dev/kanban/internal/auth"
	"github.com/kanban-dev/kanban/internal/models"
	"github.com/kanban-dev/kanban/internal/store"
	"github.com/kanban-dev/kanban/internal/testutil"
	"github.com/stretchr/testify/require"
)

var testParams = auth.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(testutil.NewTestDB(t), auth.NewPasswordHasher(testParams))
}

func mustCreateUser(t *testing.T, s *store.Store, name string) *models.User {
	t.Helper()

	user, err := s.CreateUser(context.Background(), store.NewUser{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "password-" + name,
	})
	require.NoError(t, err)

	return user
}

func mustCreateProject(t *testing.T, s *store.Store, creator *models.User, name string, members ...*models.User) *models.Project {
	t.Helper()

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}

	detail, err := s.CreateProject(context.Background(), creator.ID, store.NewProject{
		Name:    name,
		UserIDs: ids,
	})
	require.NoError(t, err)

	return &detail.Project
}

func mustCreateTask(t *testing.T, s *store.Store, project *models.Project, title string) *models.Task {
	t.Helper()

	task, err := s.CreateTask(context.Background(), project.ID, store.NewTask{Title: title})
	require.NoError(t, err)

	return task
}

func ptr[T any](v T) *T {
	return &v
}
