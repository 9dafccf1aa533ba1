package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"university_portal_backend/internal/academics"
	"university_portal_backend/internal/account"
	"university_portal_backend/internal/catalog"
	"university_portal_backend/internal/common"
	"university_portal_backend/internal/config"
	"university_portal_backend/internal/contact"
	"university_portal_backend/internal/media"
	"university_portal_backend/internal/navigation"
	"university_portal_backend/internal/notification"
	"university_portal_backend/internal/search"
	"university_portal_backend/internal/seed"
	"university_portal_backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type envelope[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	logger := zap.NewNop()

	cfg := &config.Config{
		GinMode:            gin.TestMode,
		ServerHost:         "127.0.0.1",
		ServerPort:         "0",
		SessionCookieName:  "portal_session",
		SessionMaxActive:   16,
		SessionIdleTimeout: 30 * time.Minute,
		ContactSubmitDelay: time.Hour,
		ProfileSavedNotice: time.Hour,
		MediaRoot:          "../../static",
		ImageFallbackURL:   "/static/img/placeholder.svg",
		ImageCheckTimeout:  time.Second,
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	data, err := seed.Load()
	require.NoError(t, err)

	catalogService := catalog.NewService(catalog.NewGORMRepository(db), logger)
	require.NoError(t, catalogService.Seed(ctx, data))
	cat, err := catalogService.Load(ctx)
	require.NoError(t, err)

	academicsService := academics.NewService(academics.NewGORMRepository(db), logger)
	require.NoError(t, academicsService.Seed(ctx, data.Programs))

	notifications, err := notification.FromSeed(data.Notifications)
	require.NoError(t, err)
	options, err := account.OptionsFromSeed(data.Preferences)
	require.NoError(t, err)
	profile, err := account.ProfileFromSeed(data.Profile)
	require.NoError(t, err)

	factory, err := session.NewFactory(cat, notifications, options, cfg.ContactSubmitDelay, logger,
		session.WithProfile(profile, cfg.ProfileSavedNotice))
	require.NoError(t, err)
	store, err := session.NewStore(factory, cfg.SessionMaxActive, cfg.SessionIdleTimeout, logger)
	require.NoError(t, err)

	resolver, err := media.NewResolver(cfg.MediaRoot, cfg.ImageFallbackURL, cfg.ImageCheckTimeout, logger)
	require.NoError(t, err)

	server, err := NewServer(cfg, logger, store, Handlers{
		Search:       search.NewHandler(cat, logger),
		Notification: notification.NewHandler(logger),
		Contact:      contact.NewHandler(logger),
		Academics:    academics.NewHandler(academicsService, logger),
		Account:      account.NewHandler(logger),
		Media:        media.NewHandler(resolver, logger),
		Navigation:   navigation.NewHandler(),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return server
}

func do(server *Server, method, path, sessionID string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(common.SessionIDHeader, sessionID)
	}
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	server := newTestServer(t)

	w := do(server, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"UP"`)
}

func TestServer_SessionStateSurvivesAcrossRequests(t *testing.T) {
	server := newTestServer(t)

	w := do(server, http.MethodPut, "/api/v1/search/query", "", map[string]string{"query": "calc"})
	require.Equal(t, http.StatusOK, w.Code)
	sessionID := w.Header().Get(common.SessionIDHeader)
	require.NotEmpty(t, sessionID)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "portal_session="+sessionID)

	w = do(server, http.MethodGet, "/api/v1/search/overlay", sessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var same envelope[search.OverlayResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &same))
	assert.True(t, same.Data.Open)
	assert.Equal(t, "calc", same.Data.Query)
	assert.Equal(t, sessionID, w.Header().Get(common.SessionIDHeader))

	w = do(server, http.MethodGet, "/api/v1/search/overlay", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var other envelope[search.OverlayResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &other))
	assert.False(t, other.Data.Open)
	assert.Empty(t, other.Data.Query)
	assert.NotEqual(t, sessionID, w.Header().Get(common.SessionIDHeader))
}

func TestServer_NotificationsAreIsolatedPerSession(t *testing.T) {
	server := newTestServer(t)

	w := do(server, http.MethodPost, "/api/v1/notifications/mark-all-read", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := w.Header().Get(common.SessionIDHeader)

	w = do(server, http.MethodGet, "/api/v1/notifications/badges", first, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cleared envelope[notification.Badges]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cleared))
	assert.Zero(t, cleared.Data.Total)

	w = do(server, http.MethodGet, "/api/v1/notifications/badges", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fresh envelope[notification.Badges]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fresh))
	assert.Equal(t, 3, fresh.Data.Total)
}

func TestServer_ProfileEditAndSave(t *testing.T) {
	server := newTestServer(t)

	w := do(server, http.MethodGet, "/api/v1/account/profile", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sessionID := w.Header().Get(common.SessionIDHeader)
	var got envelope[account.ProfileState]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Alex", got.Data.Profile.FirstName)
	assert.False(t, got.Data.Editing)

	update := map[string]string{
		"first_name": "Alexandra",
		"last_name":  "Johnson",
		"email":      "alexandra.johnson@stateuniversity.edu",
	}
	w = do(server, http.MethodPut, "/api/v1/account/profile", sessionID, update)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(server, http.MethodPost, "/api/v1/account/profile/edit", sessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(server, http.MethodPut, "/api/v1/account/profile", sessionID, update)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(server, http.MethodGet, "/api/v1/account/profile", sessionID, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Alexandra", got.Data.Profile.FirstName)
	assert.True(t, got.Data.Saved)
	assert.Equal(t, "Profile updated successfully!", got.Data.Message)
	assert.Equal(t, "SU-2024-00412", got.Data.Profile.StudentID)
}

func TestServer_StatelessRoutes(t *testing.T) {
	server := newTestServer(t)

	w := do(server, http.MethodGet, "/api/v1/academics/programs?level=graduate", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var programs envelope[academics.ProgramListResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &programs))
	assert.Len(t, programs.Data.Programs, 3)
	assert.Empty(t, w.Header().Get(common.SessionIDHeader))

	w = do(server, http.MethodGet, "/static/img/placeholder.svg", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(server, http.MethodGet, "/api/v1/routes?current=/campus", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_UnknownRoutes(t *testing.T) {
	server := newTestServer(t)

	w := do(server, http.MethodGet, "/api/v1/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"NOT_FOUND"`)

	w = do(server, http.MethodDelete, "/health", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"METHOD_NOT_ALLOWED"`)
}
