package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NEXUS-UST/nexus-forum/internal/auth"
	"github.com/NEXUS-UST/nexus-forum/internal/config"
	"github.com/NEXUS-UST/nexus-forum/internal/server"
	"github.com/NEXUS-UST/nexus-forum/internal/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	t.Setenv("STORE_DRIVER", config.DriverMemory)
	t.Setenv("JWT_SECRET", "test-secret")
	cfg := config.New()

	m := store.NewMemory()
	hash, err := auth.HashPassword(store.DefaultAdminPassword)
	require.NoError(t, err)
	m.SeedDefaults(hash)

	return server.New(cfg, m).Handler
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]any
	if len(w.Body.Bytes()) > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func doJSONList(t *testing.T, router http.Handler, path string) (*httptest.ResponseRecorder, []map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	return w, decoded
}

func TestForumScenario(t *testing.T) {
	router := setupRouter(t)

	// seeded categories are live, General is first
	w, categories := doJSONList(t, router, "/categories")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, categories)
	assert.Equal(t, "General", categories[0]["name"])
	assert.Equal(t, float64(0), categories[0]["topic_count"])

	// create a topic as the seeded admin (user 1)
	w, topic := doJSON(t, router, http.MethodPost, "/topics", gin.H{
		"title": "Hi", "content": "Hello", "category_id": 1, "user_id": 1,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(1), topic["id"])
	assert.Equal(t, float64(0), topic["views"])
	assert.Equal(t, false, topic["is_pinned"])

	// fetching counts a view
	w, fetched := doJSON(t, router, http.MethodGet, "/topics/1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), fetched["views"])
	assert.Equal(t, "admin", fetched["author"])
	assert.Equal(t, "General", fetched["category_name"])

	// reply
	w, _ = doJSON(t, router, http.MethodPost, "/posts", gin.H{
		"content": "Reply", "topic_id": 1, "user_id": 1,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w, posts := doJSONList(t, router, "/topics/1/posts")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, posts, 1)
	assert.Equal(t, float64(0), posts[0]["like_count"])

	// like, then unlike
	w, like := doJSON(t, router, http.MethodPost, "/posts/1/like", gin.H{"user_id": 1}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, like["liked"])

	w, like = doJSON(t, router, http.MethodPost, "/posts/1/like", gin.H{"user_id": 1}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, like["liked"])

	// topic list reflects the post
	w, topics := doJSONList(t, router, "/topics?category=1")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, topics, 1)
	assert.Equal(t, float64(1), topics[0]["post_count"])

	// stats
	w, stats := doJSON(t, router, http.MethodGet, "/stats", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), stats["user_count"])
	assert.Equal(t, float64(1), stats["topic_count"])
	assert.Equal(t, float64(1), stats["post_count"])
}

func TestRegisterLoginFlow(t *testing.T) {
	router := setupRouter(t)

	w, body := doJSON(t, router, http.MethodPost, "/register", gin.H{
		"username": "alice", "email": "alice@example.com", "password": "hunter22",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])

	// duplicate username
	w, _ = doJSON(t, router, http.MethodPost, "/register", gin.H{
		"username": "alice", "email": "other@example.com", "password": "hunter22",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// duplicate email under another username
	w, _ = doJSON(t, router, http.MethodPost, "/register", gin.H{
		"username": "alice2", "email": "alice@example.com", "password": "hunter22",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// wrong password is a generic 401
	w, body = doJSON(t, router, http.MethodPost, "/login", gin.H{
		"username_or_email": "alice", "password": "wrong",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", body["error"])

	// unknown identifier answers the same way
	w, body = doJSON(t, router, http.MethodPost, "/login", gin.H{
		"username_or_email": "nobody", "password": "hunter22",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", body["error"])

	// login by email works and yields a token usable on /me
	w, body = doJSON(t, router, http.MethodPost, "/login", gin.H{
		"username_or_email": "alice@example.com", "password": "hunter22",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	token := body["token"].(string)

	w, me := doJSON(t, router, http.MethodGet, "/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", me["username"])

	w, _ = doJSON(t, router, http.MethodGet, "/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFailedLoginDoesNotTouchLastSeen(t *testing.T) {
	router := setupRouter(t)

	w, body := doJSON(t, router, http.MethodPost, "/register", gin.H{
		"username": "carol", "email": "carol@example.com", "password": "hunter22",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	token := body["token"].(string)

	lastSeen := func() time.Time {
		w, me := doJSON(t, router, http.MethodGet, "/me", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		ts, err := time.Parse(time.RFC3339Nano, me["last_seen"].(string))
		require.NoError(t, err)
		return ts
	}

	before := lastSeen()
	time.Sleep(5 * time.Millisecond)

	w, _ = doJSON(t, router, http.MethodPost, "/login", gin.H{
		"username_or_email": "carol", "password": "wrong",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, lastSeen().Equal(before), "failed login must not update last_seen")

	w, _ = doJSON(t, router, http.MethodPost, "/login", gin.H{
		"username_or_email": "carol", "password": "hunter22",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, lastSeen().After(before), "successful login must update last_seen")
}

func TestTokenIdentityOverridesBody(t *testing.T) {
	router := setupRouter(t)

	w, body := doJSON(t, router, http.MethodPost, "/register", gin.H{
		"username": "bob", "email": "bob@example.com", "password": "hunter22",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	token := body["token"].(string)

	// body claims admin, token says bob; bob wins
	w, topic := doJSON(t, router, http.MethodPost, "/topics", gin.H{
		"title": "T", "content": "C", "category_id": 1, "user_id": 1,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(2), topic["user_id"])
}

func TestNotFoundAndValidation(t *testing.T) {
	router := setupRouter(t)

	w, body := doJSON(t, router, http.MethodGet, "/topics/42", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "topic not found", body["error"])

	w, _ = doJSON(t, router, http.MethodGet, "/topics/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// missing user_id on a write
	w, _ = doJSON(t, router, http.MethodPost, "/topics", gin.H{
		"title": "T", "content": "C", "category_id": 1,
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// like on a missing post
	w, _ = doJSON(t, router, http.MethodPost, "/posts/99/like", gin.H{"user_id": 1}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	router := setupRouter(t)

	w, body := doJSON(t, router, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "up", body["database"])
	assert.Equal(t, float64(4), body["categories"])
}

func TestSequentialViewCounts(t *testing.T) {
	router := setupRouter(t)

	w, _ := doJSON(t, router, http.MethodPost, "/topics", gin.H{
		"title": "Views", "content": "count me", "category_id": 1, "user_id": 1,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	for i := 1; i <= 5; i++ {
		w, fetched := doJSON(t, router, http.MethodGet, "/topics/1", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(i), fetched["views"], fmt.Sprintf("fetch %d", i))
	}
}
