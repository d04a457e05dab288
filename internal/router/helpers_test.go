package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kanban-dev/kanban/internal/auth"
	"github.com/kanban-dev/kanban/internal/realtime"
	"github.com/kanban-dev/kanban/internal/router"
	"github.com/kanban-dev/kanban/internal/store"
	"github.com/kanban-dev/kanban/internal/testutil"
	"github.com/kanban-dev/kanban/internal/types"
	"github.com/stretchr/testify/require"
)

const cookieName = "access_token"

var testParams = auth.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

type testServer struct {
	engine *gin.Engine
	store  *store.Store
	tokens *auth.TokenService
	hub    *realtime.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := store.New(testutil.NewTestDB(t), auth.NewPasswordHasher(testParams))
	tokens := auth.NewTokenService([]byte("router-test-secret-key"), time.Hour, "kanban")
	hub := realtime.NewHub(nil)

	engine := router.NewRouter(router.Options{
		Store:          s,
		Tokens:         tokens,
		Cookie:         auth.SessionCookie{Name: cookieName, TTL: time.Hour},
		Hub:            hub,
		AllowedOrigins: []string{"http://localhost:5173"},
	})

	return &testServer{engine: engine, store: s, tokens: tokens, hub: hub}
}

// client keeps the session cookie between requests like a browser would.
type client struct {
	t     *testing.T
	srv   *testServer
	token string
}

func (ts *testServer) anonymous(t *testing.T) *client {
	return &client{t: t, srv: ts}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: c.token})
	}

	rec := httptest.NewRecorder()
	c.srv.engine.ServeHTTP(rec, req)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name != cookieName {
			continue
		}
		if cookie.MaxAge < 0 || cookie.Value == "" {
			c.token = ""
		} else {
			c.token = cookie.Value
		}
	}

	return rec
}

// signup registers a user and returns a client logged in as them.
func (ts *testServer) signup(t *testing.T, name string) (*client, types.UserResponse) {
	t.Helper()

	c := ts.anonymous(t)
	rec := c.do(http.MethodPost, "/users", map[string]string{
		"name":     name,
		"email":    name + "@example.com",
		"password": "password-" + name,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotEmpty(t, c.token)

	return c, decode[types.UserResponse](t, rec)
}

func (c *client) createProject(name string, extra map[string]any) types.ProjectDetailResponse {
	c.t.Helper()

	body := map[string]any{"name": name}
	for k, v := range extra {
		body[k] = v
	}

	rec := c.do(http.MethodPost, "/projects", body)
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())

	return decode[types.ProjectDetailResponse](c.t, rec)
}

func (c *client) createTask(projectID uint, title string) types.TaskResponse {
	c.t.Helper()

	rec := c.do(http.MethodPost, fmt.Sprintf("/projects/%d/tasks", projectID), map[string]any{"title": title})
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())

	return decode[types.TaskResponse](c.t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func cookieCleared(rec *httptest.ResponseRecorder) bool {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == cookieName && cookie.MaxAge < 0 {
			return true
		}
	}
	return false
}
