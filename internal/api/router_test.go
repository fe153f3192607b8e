package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"blogg/internal/app/service"
	"blogg/internal/common/security"
	"blogg/internal/domain/repository"
	"blogg/internal/platform/config"
	"blogg/internal/platform/database"
	"blogg/internal/platform/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//
// --- Helpers ---
//

func newTestApp(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:     []byte("test-secret"),
		JWTExp:     time.Hour,
		SessionTTL: time.Hour,
	}
	security.InitJWT()

	db, driver, err := database.Open("", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.EnsureSchema(context.Background(), db, driver))

	sessions := session.NewMemoryStore(config.AppConfig.SessionTTL)
	authService := service.NewAuthService(repository.NewUserRepository(db, driver))
	postService := service.NewPostService(repository.NewPostRepository(db, driver))
	todoService := service.NewTodoService(repository.NewTodoRepository(db, driver))

	ts := httptest.NewServer(NewRouter(authService, postService, todoService, sessions))
	t.Cleanup(ts.Close)
	return ts, db
}

// noRedirectClient returns redirects to the caller instead of following them.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func registerUser(t *testing.T, ts *httptest.Server, username, password string) {
	t.Helper()
	resp, err := noRedirectClient().PostForm(ts.URL+"/register", url.Values{
		"username": {username},
		"password": {password},
		"email":    {username + "@example.com"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
}

// loginBrowser registers nothing; it logs an existing user in and returns a
// cookie-carrying client for page routes.
func loginBrowser(t *testing.T, ts *httptest.Server, username, password string) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.PostForm(ts.URL+"/login", url.Values{
		"username": {username},
		"password": {password},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
	return client
}

// apiToken logs in over the JSON API and returns the bearer token.
func apiToken(t *testing.T, ts *httptest.Server, username, password string) string {
	t.Helper()
	body := `{"username":"` + username + `","password":"` + password + `"}`
	resp, err := http.Post(ts.URL+"/api/login", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.NotEmpty(t, payload.Token)
	return payload.Token
}

func doJSON(t *testing.T, method, url, body, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&count))
	return count
}

//
// --- Pages ---
//

func TestHealthCheck(t *testing.T) {
	ts, _ := newTestApp(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", readBody(t, resp))
}

func TestRegisterLoginDashboard(t *testing.T) {
	ts, _ := newTestApp(t)
	registerUser(t, ts, "alice", "hunter2")

	client := loginBrowser(t, ts, "alice", "hunter2")
	resp, err := client.Get(ts.URL + "/dashboard")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "alice")
}

func TestRegisterValidationError(t *testing.T) {
	ts, db := newTestApp(t)
	resp, err := noRedirectClient().PostForm(ts.URL+"/register", url.Values{
		"username": {"alice"},
		"password": {""},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Username and password are required")
	assert.Zero(t, countRows(t, db, "users"))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts, db := newTestApp(t)
	registerUser(t, ts, "alice", "hunter2")

	resp, err := noRedirectClient().PostForm(ts.URL+"/register", url.Values{
		"username": {"alice"},
		"password": {"other"},
	})
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "Username already taken")
	assert.Equal(t, 1, countRows(t, db, "users"), "conflict must leave exactly one row")
}

func TestLoginWrongPassword(t *testing.T) {
	ts, _ := newTestApp(t)
	registerUser(t, ts, "alice", "hunter2")

	resp, err := noRedirectClient().PostForm(ts.URL+"/login", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Cookies(), "no session on failed login")
	assert.Contains(t, readBody(t, resp), "Invalid credentials")

	// Still anonymous: the dashboard bounces to login.
	resp2, err := noRedirectClient().Get(ts.URL + "/dashboard")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp2.StatusCode)
	assert.Equal(t, "/login", resp2.Header.Get("Location"))
}

func TestLogoutEndsSession(t *testing.T) {
	ts, _ := newTestApp(t)
	registerUser(t, ts, "alice", "hunter2")
	client := loginBrowser(t, ts, "alice", "hunter2")

	resp, err := client.Get(ts.URL + "/logout")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	// The guard kicks in again once the session is gone.
	resp2, err := client.Get(ts.URL + "/dashboard")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp2.StatusCode)
	assert.Equal(t, "/login", resp2.Header.Get("Location"))
}

func TestCreatePostRequiresLogin(t *testing.T) {
	ts, db := newTestApp(t)
	resp, err := noRedirectClient().PostForm(ts.URL+"/create_post", url.Values{
		"title":   {"sneaky"},
		"content": {"post"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Zero(t, countRows(t, db, "posts"), "anonymous create must not insert")
}

func TestCreatePostAndIndexLimit(t *testing.T) {
	ts, _ := newTestApp(t)
	registerUser(t, ts, "alice", "hunter2")
	client := loginBrowser(t, ts, "alice", "hunter2")

	titles := []string{"first", "second", "third", "fourth", "fifth", "sixth", "seventh"}
	for _, title := range titles {
		resp, err := client.PostForm(ts.URL+"/create_post", url.Values{
			"title":   {title},
			"content": {"content of " + title},
		})
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	}

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	body := readBody(t, resp)

	// Five newest posts, nothing older.
	for _, title := range titles[2:] {
		assert.Contains(t, body, title)
	}
	assert.NotContains(t, body, "first")
	assert.NotContains(t, body, "second")
}

func TestViewPost(t *testing.T) {
	ts, _ := newTestApp(t)
	registerUser(t, ts, "alice", "hunter2")
	client := loginBrowser(t, ts, "alice", "hunter2")

	resp, err := client.PostForm(ts.URL+"/create_post", url.Values{
		"title":   {"hello world"},
		"content": {"the content"},
	})
	require.NoError(t, err)
	resp.Body.Close()

	resp2, err := http.Get(ts.URL + "/post/1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
	body := readBody(t, resp2)
	assert.Contains(t, body, "hello world")
	assert.Contains(t, body, "alice")
}

func TestViewPostNotFoundRedirectsHome(t *testing.T) {
	ts, _ := newTestApp(t)
	resp, err := noRedirectClient().Get(ts.URL + "/post/999")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

//
// --- Todo API ---
//

func TestTodoAPIRequiresAuth(t *testing.T) {
	ts, _ := newTestApp(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/todos", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/todos", `{"task":"x"}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestTodoAPICreateValidation(t *testing.T) {
	ts, db := newTestApp(t)
	registerUser(t, ts, "alice", "hunter2")
	token := apiToken(t, ts, "alice", "hunter2")

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/todos", `{}`, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "error")
	assert.Zero(t, countRows(t, db, "todos"))
}

func TestTodoAPILifecycle(t *testing.T) {
	ts, _ := newTestApp(t)
	registerUser(t, ts, "alice", "hunter2")
	token := apiToken(t, ts, "alice", "hunter2")

	// Create.
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/todos", `{"task":"buy milk"}`, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID        int64  `json:"id"`
		Task      string `json:"task"`
		Completed bool   `json:"completed"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.Positive(t, created.ID)
	assert.Equal(t, "buy milk", created.Task)
	assert.False(t, created.Completed)

	// List includes exactly that row.
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/todos", "", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var todos []struct {
		ID        int64  `json:"id"`
		Task      string `json:"task"`
		Completed bool   `json:"completed"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&todos))
	resp.Body.Close()
	require.Len(t, todos, 1)
	assert.Equal(t, created.ID, todos[0].ID)
	assert.Equal(t, "buy milk", todos[0].Task)

	// Toggle complete.
	putURL := ts.URL + "/api/todos/" + jsonID(created.ID)
	resp = doJSON(t, http.MethodPut, putURL, `{"completed":true}`, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":true}`, readBody(t, resp))

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/todos", "", token)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&todos))
	resp.Body.Close()
	require.Len(t, todos, 1)
	assert.True(t, todos[0].Completed)

	// Delete.
	resp = doJSON(t, http.MethodDelete, putURL, "", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":true}`, readBody(t, resp))

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/todos", "", token)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&todos))
	resp.Body.Close()
	assert.Empty(t, todos)
}

func TestTodoAPIOwnerIsolation(t *testing.T) {
	ts, db := newTestApp(t)
	registerUser(t, ts, "alice", "hunter2")
	registerUser(t, ts, "bob", "swordfish")
	aliceToken := apiToken(t, ts, "alice", "hunter2")
	bobToken := apiToken(t, ts, "bob", "swordfish")

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/todos", `{"task":"alice's secret"}`, aliceToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	// Bob never sees it.
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/todos", "", bobToken)
	assert.JSONEq(t, `[]`, readBody(t, resp))

	// Bob's update reports success but changes nothing: verify row state,
	// not just the response code.
	todoURL := ts.URL + "/api/todos/" + jsonID(created.ID)
	resp = doJSON(t, http.MethodPut, todoURL, `{"completed":true}`, bobToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":true}`, readBody(t, resp))

	var completed bool
	require.NoError(t, db.QueryRow("SELECT completed FROM todos WHERE id = ?", created.ID).Scan(&completed))
	assert.False(t, completed)

	// Bob's delete reports success but the row survives.
	resp = doJSON(t, http.MethodDelete, todoURL, "", bobToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":true}`, readBody(t, resp))
	assert.Equal(t, 1, countRows(t, db, "todos"))
}

func TestAPILoginBadCredentials(t *testing.T) {
	ts, _ := newTestApp(t)
	registerUser(t, ts, "alice", "hunter2")

	resp, err := http.Post(ts.URL+"/api/login", "application/json",
		strings.NewReader(`{"username":"alice","password":"wrong"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func jsonID(id int64) string {
	return strconv.FormatInt(id, 10)
}
