package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/shoptrack-be/internal/auth"
	"github.com/hongminglow/shoptrack-be/internal/config"
	"github.com/hongminglow/shoptrack-be/internal/models"
	"github.com/hongminglow/shoptrack-be/internal/storage/memory"
)

type envelope struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id"`
}

// memDenylist is a map-backed auth.Denylist for exercising logout.
type memDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (d *memDenylist) Revoke(_ context.Context, id string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[id] = until
	return nil
}

func (d *memDenylist) IsRevoked(_ context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.revoked[id]
	return ok, nil
}

func testConfig() config.Config {
	return config.Config{
		Port:           "0",
		StorageDriver:  config.DriverMemory,
		StorageTimeout: time.Second,
		JWTSecret:      "test-secret",
		JWTIssuer:      "shoptrack-test",
		JWTTTL:         time.Hour,
		CORSOrigins:    []string{"*"},
	}
}

func newTestServer(t *testing.T, denylist auth.Denylist) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewRouter(testConfig(), memory.New(), denylist, zerolog.Nop()))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func registerAndLogin(t *testing.T, ts *httptest.Server, name string) string {
	t.Helper()
	status, _ := do(t, ts, http.MethodPost, "/register", "", map[string]string{
		"name": name, "email": name + "@x.com", "password": "Secret123",
	})
	require.Equal(t, http.StatusCreated, status)

	status, env := do(t, ts, http.MethodPost, "/login", "", map[string]string{
		"login": name, "password": "Secret123",
	})
	require.Equal(t, http.StatusOK, status)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestShoppingScenario(t *testing.T) {
	ts := newTestServer(t, nil)
	token := registerAndLogin(t, ts, "alice")

	status, env := do(t, ts, http.MethodPost, "/lists", token, map[string]string{"title": "Groceries"})
	require.Equal(t, http.StatusCreated, status)
	var list models.List
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, int64(1), list.ID)
	assert.Equal(t, "Groceries", list.Title)
	assert.False(t, list.Pinned)

	status, env = do(t, ts, http.MethodPost, "/lists/1/items", token, map[string]any{"name": "Milk", "quantity": 2})
	require.Equal(t, http.StatusCreated, status)
	var item models.Item
	require.NoError(t, json.Unmarshal(env.Data, &item))
	assert.Equal(t, int64(1), item.ID)
	assert.Equal(t, int64(1), item.ListID)
	assert.Equal(t, 2, item.Quantity)
	assert.False(t, item.IsPurchased)

	status, env = do(t, ts, http.MethodPatch, "/items/1/purchase", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &item))
	assert.True(t, item.IsPurchased)

	status, _ = do(t, ts, http.MethodPatch, "/items/1/purchase", token, nil)
	require.Equal(t, http.StatusOK, status, "re-marking is a no-op success")

	status, _ = do(t, ts, http.MethodPatch, "/lists/1/pin", token, nil)
	require.Equal(t, http.StatusOK, status)
	status, env = do(t, ts, http.MethodGet, "/lists", token, nil)
	require.Equal(t, http.StatusOK, status)
	var lists []models.List
	require.NoError(t, json.Unmarshal(env.Data, &lists))
	require.Len(t, lists, 1)
	assert.True(t, lists[0].Pinned)

	status, _ = do(t, ts, http.MethodDelete, "/lists/1", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = do(t, ts, http.MethodGet, "/lists/1/items", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRegisterAndLoginErrors(t *testing.T) {
	ts := newTestServer(t, nil)
	registerAndLogin(t, ts, "alice")

	status, _ := do(t, ts, http.MethodPost, "/register", "", map[string]string{
		"name": "alice", "email": "new@x.com", "password": "Secret123",
	})
	assert.Equal(t, http.StatusBadRequest, status, "duplicate name")

	status, _ = do(t, ts, http.MethodPost, "/register", "", map[string]string{
		"name": "other", "email": "alice@x.com", "password": "Secret123",
	})
	assert.Equal(t, http.StatusBadRequest, status, "duplicate email")

	status, _ = do(t, ts, http.MethodPost, "/login", "", map[string]string{"login": "alice@x.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, ts, http.MethodPost, "/register", "", map[string]string{
		"name": "ALICE", "email": "fresh@x.com", "password": "Secret123",
	})
	assert.Equal(t, http.StatusBadRequest, status, "duplicate name in another case")

	status, _ = do(t, ts, http.MethodPost, "/login", "", map[string]string{"login": "ghost", "password": "Secret123"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, ts, http.MethodPost, "/login", "", map[string]string{"login": "alice", "password": "Secret123", "extra": "x"})
	assert.Equal(t, http.StatusBadRequest, status, "unknown fields are rejected")
}

func TestAuthGate(t *testing.T) {
	ts := newTestServer(t, nil)

	status, _ := do(t, ts, http.MethodGet, "/lists", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, ts, http.MethodGet, "/lists", "garbage", nil)
	assert.Equal(t, http.StatusForbidden, status)

	expired := auth.NewTokenManager("test-secret", "shoptrack-test", -time.Minute)
	tok, err := expired.Generate(1)
	require.NoError(t, err)
	status, _ = do(t, ts, http.MethodGet, "/lists", tok, nil)
	assert.Equal(t, http.StatusForbidden, status)

	forged, err := auth.NewTokenManager("other-secret", "shoptrack-test", time.Hour).Generate(1)
	require.NoError(t, err)
	status, _ = do(t, ts, http.MethodGet, "/lists", forged, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestCrossUserIsolation(t *testing.T) {
	ts := newTestServer(t, nil)
	alice := registerAndLogin(t, ts, "alice")
	bob := registerAndLogin(t, ts, "bob")

	status, _ := do(t, ts, http.MethodPost, "/lists", alice, map[string]string{"title": "Groceries"})
	require.Equal(t, http.StatusCreated, status)
	status, _ = do(t, ts, http.MethodPost, "/lists/1/items", alice, map[string]any{"name": "Milk", "quantity": 1})
	require.Equal(t, http.StatusCreated, status)

	cases := []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/lists/1", nil},
		{http.MethodGet, "/lists/1/items", nil},
		{http.MethodPost, "/lists/1/items", map[string]any{"name": "Beer", "quantity": 6}},
		{http.MethodPatch, "/lists/1/pin", nil},
		{http.MethodPatch, "/lists/1/unpin", nil},
		{http.MethodDelete, "/lists/1", nil},
		{http.MethodPatch, "/items/1/purchase", nil},
		{http.MethodDelete, "/items/1", nil},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s %s", tc.method, tc.path), func(t *testing.T) {
			status, _ := do(t, ts, tc.method, tc.path, bob, tc.body)
			assert.Equal(t, http.StatusForbidden, status)
		})
	}

	status, env := do(t, ts, http.MethodGet, "/lists/1/items", alice, nil)
	require.Equal(t, http.StatusOK, status)
	var items []models.Item
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.False(t, items[0].IsPurchased)

	status, env = do(t, ts, http.MethodGet, "/lists", bob, nil)
	require.Equal(t, http.StatusOK, status)
	var lists []models.List
	require.NoError(t, json.Unmarshal(env.Data, &lists))
	assert.Empty(t, lists)
}

func TestLoginWithRegisteredEmailCase(t *testing.T) {
	ts := newTestServer(t, nil)
	status, _ := do(t, ts, http.MethodPost, "/register", "", map[string]string{
		"name": "alice", "email": "Alice@X.com", "password": "Secret123",
	})
	require.Equal(t, http.StatusCreated, status)

	status, env := do(t, ts, http.MethodPost, "/login", "", map[string]string{
		"login": "Alice@X.com", "password": "Secret123",
	})
	require.Equal(t, http.StatusOK, status, env.Message)
}

func TestItemValidation(t *testing.T) {
	ts := newTestServer(t, nil)
	token := registerAndLogin(t, ts, "alice")
	status, _ := do(t, ts, http.MethodPost, "/lists", token, map[string]string{"title": "Groceries"})
	require.Equal(t, http.StatusCreated, status)

	bad := []map[string]any{
		{"name": "Milk", "quantity": 0},
		{"name": "Milk"},
		{"quantity": 2},
		{"name": "", "quantity": 2},
		{"name": "Milk", "quantity": 1.5},
		{"name": "Milk", "quantity": 3000000000},
	}
	for _, body := range bad {
		status, _ := do(t, ts, http.MethodPost, "/lists/1/items", token, body)
		assert.Equal(t, http.StatusBadRequest, status, "%v", body)
	}

	status, env := do(t, ts, http.MethodGet, "/lists/1/items", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))

	status, _ = do(t, ts, http.MethodPost, "/lists", token, map[string]string{"title": ""})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, ts, http.MethodGet, "/lists/abc/items", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLogoutRevokesToken(t *testing.T) {
	ts := newTestServer(t, &memDenylist{revoked: map[string]time.Time{}})
	token := registerAndLogin(t, ts, "alice")

	status, _ := do(t, ts, http.MethodGet, "/lists", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = do(t, ts, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = do(t, ts, http.MethodGet, "/lists", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	status, env := do(t, ts, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	var out map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "up", out["database"])
	assert.NotEmpty(t, env.RequestID)
}
