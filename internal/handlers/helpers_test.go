package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yukikurage/event-task-api/internal/auth"
	"github.com/yukikurage/event-task-api/internal/config"
	"github.com/yukikurage/event-task-api/internal/database"
	"github.com/yukikurage/event-task-api/internal/models"
	"github.com/yukikurage/event-task-api/internal/router"
)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	tokens *auth.TokenIssuer
	token  string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, database.Migrate(db, zap.NewNop()))

	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	r := router.New(router.Dependencies{
		DB:           db,
		Logger:       zap.NewNop(),
		Tokens:       tokens,
		SessionStore: cookie.NewStore([]byte("test-secret")),
		Metrics:      config.MetricsConfig{Enabled: true, Path: "/metrics"},
	})

	caller := &models.User{ID: 1000, Email: "caller@example.com", Name: "caller", PasswordHash: "x"}
	require.NoError(t, db.Create(caller).Error)
	token, err := tokens.Issue(caller)
	require.NoError(t, err)

	return &testEnv{db: db, router: r, tokens: tokens, token: token}
}

// do sends an authenticated JSON request. body may be nil, a string or any JSON-marshalable value.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := newJSONRequest(t, method, path, body)
	req.Header.Set("Authorization", "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doAnonymous(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, newJSONRequest(t, method, path, body))
	return w
}

func newJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (e *testEnv) seedUsers(t *testing.T, ids ...uint64) {
	t.Helper()
	for _, id := range ids {
		user := &models.User{ID: id, Email: fmt.Sprintf("user%d@example.com", id), Name: "user", PasswordHash: "x"}
		require.NoError(t, e.db.Create(user).Error)
	}
}

func (e *testEnv) seedEvent(t *testing.T, name string) *models.Event {
	t.Helper()
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	event := &models.Event{Name: name, Location: "Tokyo", StartTime: start, EndTime: start.Add(8 * time.Hour)}
	require.NoError(t, e.db.Create(event).Error)
	return event
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
