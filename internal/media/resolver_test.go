package media

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const fallback = "/static/img/placeholder.svg"

func newTestResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "img", "campus.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "img", "notes.txt"), []byte("txt"), 0o644))

	r, err := NewResolver(root, fallback, time.Second, zap.NewNop(), opts...)
	require.NoError(t, err)
	return r
}

// allowServer lets the resolver reach a loopback test server.
func allowServer(t *testing.T, rawURL string) Option {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return WithAllowedHosts(u.Host)
}

func TestNewResolver_RequiresFallback(t *testing.T) {
	_, err := NewResolver(t.TempDir(), "", time.Second, zap.NewNop())
	assert.Error(t, err)
}

func TestResolve_Local(t *testing.T) {
	r := newTestResolver(t)
	ctx := context.Background()

	res, err := r.Resolve(ctx, "/static/img/campus.png")
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Equal(t, "/static/img/campus.png", res.Resolved)

	tests := []struct {
		src    string
		reason string
	}{
		{"/static/img/missing.png", "image not found"},
		{"/static/img/notes.txt", "not an image file"},
		{"/static/../secret.png", "invalid image path"},
		{"data:image/png;base64,AAAA", "unsupported image source"},
	}
	for _, tt := range tests {
		res, err := r.Resolve(ctx, tt.src)
		require.NoError(t, err, tt.src)
		assert.True(t, res.Fallback, tt.src)
		assert.Equal(t, fallback, res.Resolved, tt.src)
		assert.Equal(t, tt.reason, res.Reason, tt.src)
	}
}

func TestResolve_EmptySource(t *testing.T) {
	_, err := newTestResolver(t).Resolve(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptySource)
}

func TestResolve_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, http.MethodHead, req.Method)
		switch req.URL.Path {
		case "/hero.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	r := newTestResolver(t, allowServer(t, srv.URL))
	ctx := context.Background()

	res, err := r.Resolve(ctx, srv.URL+"/hero.jpg")
	require.NoError(t, err)
	assert.False(t, res.Fallback)

	res, err = r.Resolve(ctx, srv.URL+"/page")
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, "not an image", res.Reason)

	res, err = r.Resolve(ctx, srv.URL+"/gone.jpg")
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, "image host answered 404", res.Reason)
}

func TestResolve_UnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	res, err := newTestResolver(t, allowServer(t, addr)).Resolve(context.Background(), addr+"/x.png")
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, "image host unreachable", res.Reason)
}

func TestResolve_RefusesInternalTargets(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
	}))
	defer srv.Close()

	r := newTestResolver(t)
	ctx := context.Background()

	targets := []string{
		srv.URL + "/hero.png",
		"http://169.254.169.254/latest/meta-data/x.png",
		"http://10.0.0.1/x.png",
		"http://[::1]/x.png",
	}
	for _, target := range targets {
		res, err := r.Resolve(ctx, target)
		require.NoError(t, err, target)
		assert.True(t, res.Fallback, target)
		assert.Equal(t, fallback, res.Resolved, target)
		assert.Equal(t, "image host not allowed", res.Reason, target)
	}
	assert.Zero(t, hits.Load(), "no request may reach an internal address")
}

func TestResolve_RedirectToInternalTargetRefused(t *testing.T) {
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "image/png")
	}))
	defer internal.Close()
	redirector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, internal.URL+"/secret.png", http.StatusFound)
	}))
	defer redirector.Close()

	// Only the redirecting host is allowed; the hop it points at is not.
	u, err := url.Parse(redirector.URL)
	require.NoError(t, err)
	_, port, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	r := newTestResolver(t, WithAllowedHosts("127.0.0.1:"+port))

	res, err := r.Resolve(context.Background(), redirector.URL+"/hero.png")
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, "image host not allowed", res.Reason)
}

func TestInternalIP(t *testing.T) {
	tests := []struct {
		ip       string
		internal bool
	}{
		{"127.0.0.1", true},
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.1.10", true},
		{"169.254.169.254", true},
		{"100.64.0.1", true},
		{"0.0.0.0", true},
		{"::1", true},
		{"fe80::1", true},
		{"fd00::1", true},
		{"::ffff:10.0.0.1", true},
		{"8.8.8.8", false},
		{"93.184.216.34", false},
		{"2606:4700:4700::1111", false},
	}
	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			require.NotNil(t, ip)
			assert.Equal(t, tt.internal, internalIP(ip))
		})
	}
}

func TestHandler_Resolve(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(newTestResolver(t), zap.NewNop()).RegisterRoutes(router.Group("/api/v1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/media/resolve", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/media/resolve?src=/static/img/nope.png", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data Resolution `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Data.Fallback)
	assert.Equal(t, fallback, body.Data.Resolved)
}
