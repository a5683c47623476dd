package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/SoulShadow8326/soulsearch/internal/linkgraph"
	"github.com/SoulShadow8326/soulsearch/internal/obslog"
	"github.com/SoulShadow8326/soulsearch/internal/pipeline"
	"github.com/SoulShadow8326/soulsearch/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildEngine(t *testing.T) *query.Engine {
	t.Helper()
	corpusDir := t.TempDir()
	dataDir := t.TempDir()

	body := `{"url":"http://x.test/a","content":"<p>the quick brown fox</p>","encoding":"utf-8"}`
	require.NoError(t, os.WriteFile(filepath.Join(corpusDir, "a.json"), []byte(body), 0o644))

	cfg := pipeline.Config{
		Workers:             1,
		SimilarityThreshold: 0.85,
		DataDir:             dataDir,
		HITS:                linkgraph.DefaultHITSConfig,
		PageRank:            linkgraph.DefaultPageRankConfig,
	}
	_, err := pipeline.Build(context.Background(), corpusDir, cfg, obslog.Nop())
	require.NoError(t, err)

	eng, err := query.Open(dataDir, 27, query.DefaultWeights)
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })
	return eng
}

func TestHandleSearchReturnsResults(t *testing.T) {
	eng := buildEngine(t)
	srv := New(eng, obslog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/search?q=fox&k=5", nil)
	rec := httptest.NewRecorder()
	srv.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "fox", resp.Query)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "http://x.test/a", resp.Results[0].URL)
}

func TestHandleSearchMissingQueryParam(t *testing.T) {
	eng := buildEngine(t)
	srv := New(eng, obslog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	rec := httptest.NewRecorder()
	srv.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
