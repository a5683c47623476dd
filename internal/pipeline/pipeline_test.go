package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/SoulShadow8326/soulsearch/internal/linkgraph"
	"github.com/SoulShadow8326/soulsearch/internal/obslog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRecord(t *testing.T, dir, name, url, content string) {
	t.Helper()
	body := `{"url":"` + url + `","content":"` + content + `","encoding":"utf-8"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

// TestThreeDocCorpusRejectsExactDuplicate: A and C are identical bags of
// words, so C must be rejected by SimHash and only 2 documents accepted.
func TestThreeDocCorpusRejectsExactDuplicate(t *testing.T) {
	corpusDir := t.TempDir()
	dataDir := t.TempDir()

	writeRecord(t, corpusDir, "a.json", "http://x.test/a", "<p>the quick brown fox</p>")
	writeRecord(t, corpusDir, "b.json", "http://x.test/b", "<p>the lazy brown dog</p>")
	writeRecord(t, corpusDir, "c.json", "http://x.test/c", "<p>the quick brown fox</p>")

	cfg := Config{
		Workers:             1,
		MaxIndexSizeBytes:   0,
		SimilarityThreshold: 0.85,
		DataDir:             dataDir,
		HITS:                linkgraph.DefaultHITSConfig,
		PageRank:            linkgraph.DefaultPageRankConfig,
	}

	result, err := Build(context.Background(), corpusDir, cfg, obslog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, result.AcceptedDocs)
	assert.Equal(t, 1, result.RejectedDups)

	_, err = os.Stat(filepath.Join(dataDir, "documents.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dataDir, "full_analytics", "index"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dataDir, "full_analytics", "index_map_position.json"))
	assert.NoError(t, err)
}

func TestSkipsTxtSuffixedAndMalformedRecords(t *testing.T) {
	corpusDir := t.TempDir()
	dataDir := t.TempDir()

	writeRecord(t, corpusDir, "a.json", "http://x.test/a.html", "<p>hello world</p>")
	require.NoError(t, os.WriteFile(filepath.Join(corpusDir, "bad.json"), []byte("not json"), 0o644))
	writeRecord(t, corpusDir, "c.json", "http://x.test/c.txt", "raw text body")

	cfg := Config{
		Workers:             2,
		SimilarityThreshold: 0.85,
		DataDir:             dataDir,
		HITS:                linkgraph.DefaultHITSConfig,
		PageRank:            linkgraph.DefaultPageRankConfig,
	}

	result, err := Build(context.Background(), corpusDir, cfg, obslog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, result.AcceptedDocs)
}
