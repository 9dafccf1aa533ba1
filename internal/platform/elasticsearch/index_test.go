package elasticsearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"university_portal_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCluster mimics the few endpoints used here.
type fakeCluster struct {
	mu      sync.Mutex
	indices map[string]string
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path == "/" {
		io.WriteString(w, `{"name":"fake","cluster_name":"test","version":{"number":"8.18.0","build_flavor":"default"},"tagline":"You Know, for Search"}`)
		return
	}

	name := r.URL.Path[1:]
	switch r.Method {
	case http.MethodHead:
		if _, ok := f.indices[name]; ok {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.indices[name] = string(body)
		io.WriteString(w, `{"acknowledged":true,"shards_acknowledged":true,"index":"`+name+`"}`)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeCluster) index(name string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.indices[name]
	return body, ok
}

func (f *fakeCluster) setIndex(name, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indices[name] = body
}

func newFakeCluster(t *testing.T) (*fakeCluster, *ESClientWrapper) {
	t.Helper()
	cluster := &fakeCluster{indices: map[string]string{}}
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	client, err := NewClient(&config.Config{ElasticsearchURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)
	return cluster, client
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient(&config.Config{}, zap.NewNop())
	assert.Error(t, err)
}

func TestCreateCatalogIndexIfNotExists(t *testing.T) {
	cluster, client := newFakeCluster(t)
	ctx := context.Background()

	require.NoError(t, CreateCatalogIndexIfNotExists(ctx, client, "portal_catalog", zap.NewNop()))
	created, ok := cluster.index("portal_catalog")
	require.True(t, ok)

	var mapping struct {
		Mappings struct {
			Properties map[string]map[string]interface{} `json:"properties"`
		} `json:"mappings"`
	}
	require.NoError(t, json.Unmarshal([]byte(created), &mapping))
	assert.Equal(t, "keyword", mapping.Mappings.Properties["kind"]["type"])
	assert.Equal(t, "text", mapping.Mappings.Properties["title"]["type"])

	// A second call finds the index and leaves it alone.
	cluster.setIndex("portal_catalog", "existing")
	require.NoError(t, CreateCatalogIndexIfNotExists(ctx, client, "portal_catalog", zap.NewNop()))
	body, _ := cluster.index("portal_catalog")
	assert.Equal(t, "existing", body)
}
