package router_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/kanban-dev/kanban/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndListMembers(t *testing.T) {
	ts := newTestServer(t)
	alice, aliceUser := ts.signup(t, "alice")
	bob, bobUser := ts.signup(t, "bob")
	project := alice.createProject("team", nil)
	path := fmt.Sprintf("/projects/%d/users", project.ID)

	rec := bob.do(http.MethodGet, fmt.Sprintf("/projects/%d", project.ID), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = alice.do(http.MethodPost, path, map[string]any{"user_ids": []uint{bobUser.ID, 9999, bobUser.ID}})
	require.Equal(t, http.StatusOK, rec.Code)
	members := decode[[]types.UserResponse](t, rec)
	require.Len(t, members, 2)

	// repeating the add changes nothing
	rec = alice.do(http.MethodPost, path, map[string]any{"user_ids": []uint{aliceUser.ID, bobUser.ID}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]types.UserResponse](t, rec), 2)

	rec = bob.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]types.UserResponse](t, rec), 2)

	rec = bob.do(http.MethodGet, fmt.Sprintf("%s/%d", path, aliceUser.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decode[types.UserResponse](t, rec).Name)

	rec = alice.do(http.MethodPost, path, map[string]any{"user_ids": []uint{}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRemoveMember_KeepsProjectWhileMembersRemain(t *testing.T) {
	ts := newTestServer(t)
	alice, aliceUser := ts.signup(t, "alice")
	bob, bobUser := ts.signup(t, "bob")
	project := alice.createProject("team", map[string]any{"user_ids": []uint{bobUser.ID}})

	rec := bob.do(http.MethodDelete, fmt.Sprintf("/projects/%d/users/%d", project.ID, aliceUser.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode[map[string]any](t, rec)["project_deleted"])

	rec = alice.do(http.MethodGet, fmt.Sprintf("/projects/%d", project.ID), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = bob.do(http.MethodGet, fmt.Sprintf("/projects/%d", project.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = bob.do(http.MethodDelete, fmt.Sprintf("/projects/%d/users/%d", project.ID, aliceUser.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// A single member removing themselves deletes the project and its tasks.
func TestRemoveLastMemberDeletesProject(t *testing.T) {
	ts := newTestServer(t)
	u1, u1User := ts.signup(t, "u1")
	p1 := u1.createProject("p1", nil)
	t1 := u1.createTask(p1.ID, "t1")

	rec := u1.do(http.MethodDelete, fmt.Sprintf("/projects/%d/users/%d", p1.ID, u1User.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["project_deleted"])

	rec = u1.do(http.MethodGet, fmt.Sprintf("/projects/%d", p1.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = u1.do(http.MethodGet, fmt.Sprintf("/projects/%d/tasks/%d", p1.ID, t1.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, err := ts.store.GetTask(context.Background(), p1.ID, t1.ID)
	assert.Error(t, err)
}

func TestUserLookupAndSharedProjects(t *testing.T) {
	ts := newTestServer(t)
	alice, _ := ts.signup(t, "alice")
	_, bobUser := ts.signup(t, "bob")

	shared := alice.createProject("shared", map[string]any{"user_ids": []uint{bobUser.ID}})
	alice.createProject("alice only", nil)

	rec := alice.do(http.MethodGet, fmt.Sprintf("/users/%d", bobUser.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob@example.com", decode[types.UserResponse](t, rec).Email)

	rec = alice.do(http.MethodGet, fmt.Sprintf("/users/%d/projects", bobUser.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	projects := decode[[]types.ProjectResponse](t, rec)
	require.Len(t, projects, 1)
	assert.Equal(t, shared.ID, projects[0].ID)

	rec = alice.do(http.MethodGet, "/users/9999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = alice.do(http.MethodGet, "/users/9999/projects", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
