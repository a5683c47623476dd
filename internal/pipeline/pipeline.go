// Package pipeline drives the index build end to end: W parallel ingestion
// workers each own a local inverted index, followed by a single-threaded
// merge, partition, scoring, link analysis, and serialization pass. It
// uses golang.org/x/sync/errgroup since workers share no mutable state
// beyond two narrow critical sections.
package pipeline

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/SoulShadow8326/soulsearch/internal/corpusio"
	"github.com/SoulShadow8326/soulsearch/internal/docmodel"
	"github.com/SoulShadow8326/soulsearch/internal/htmlx"
	"github.com/SoulShadow8326/soulsearch/internal/index"
	"github.com/SoulShadow8326/soulsearch/internal/linkgraph"
	"github.com/SoulShadow8326/soulsearch/internal/simhash"
	"github.com/SoulShadow8326/soulsearch/internal/tokenize"
)

// Config controls one index build run.
type Config struct {
	Workers              int
	MaxIndexSizeBytes    int64
	SimilarityThreshold  float64
	DataDir              string
	HITS                 linkgraph.HITSConfig
	PageRank             linkgraph.PageRankConfig
}

// sharedState is the cross-worker state: a monotonic doc_id counter
// and the accepted-document map, each under its own lock, with the
// duplicate-check-and-insert forming a single critical section so two
// near-duplicates are never admitted concurrently.
type sharedState struct {
	docIDMu sync.Mutex
	nextID  int

	acceptMu  sync.Mutex
	fps       []simhash.Fingerprint
	documents []docmodel.Document

	skipped     atomic.Int64
	rejectedDup atomic.Int64
}

func (s *sharedState) allocID() int {
	s.docIDMu.Lock()
	defer s.docIDMu.Unlock()
	id := s.nextID
	s.nextID++
	return id
}

// tryAccept performs the duplicate-check-and-insert critical section: it
// rejects candidate as a near-duplicate of any already-accepted
// fingerprint, or else records it and returns true.
func (s *sharedState) tryAccept(fp simhash.Fingerprint, threshold float64, doc docmodel.Document) bool {
	s.acceptMu.Lock()
	defer s.acceptMu.Unlock()
	if simhash.IsNearDuplicate(fp, s.fps, threshold) {
		return false
	}
	s.fps = append(s.fps, fp)
	s.documents = append(s.documents, doc)
	return true
}

// Result summarizes a completed build.
type Result struct {
	AcceptedDocs int
	RejectedDups int
	SkippedBad   int
}

// Build runs the full ingest-to-serialize pipeline against every *.json
// record under corpusDir, writing all persisted artifacts under
// cfg.DataDir, and returns summary counts. It never mutates the Go
// toolchain's working directory beyond
// cfg.DataDir.
func Build(ctx context.Context, corpusDir string, cfg Config, log zerolog.Logger) (Result, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	shared := &sharedState{}
	partialDir := filepath.Join(cfg.DataDir, "partial_indexes")
	shardDir := filepath.Join(cfg.DataDir, "range_indexes")
	analyticsDir := filepath.Join(cfg.DataDir, "full_analytics")

	files, err := listCorpusFiles(corpusDir)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: list corpus: %w", err)
	}
	shuffle(files)

	slices := divide(files, workers)
	accumulators := make([]*index.Accumulator, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		accumulators[w] = index.NewAccumulator(partialDir, w, cfg.MaxIndexSizeBytes)
		slice := slices[w]
		g.Go(func() error {
			return ingestWorker(gctx, w, slice, shared, accumulators[w], cfg, log)
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var partialFiles []string
	for _, acc := range accumulators {
		if err := acc.Flush(); err != nil {
			return Result{}, fmt.Errorf("pipeline: flush: %w", err)
		}
		partialFiles = append(partialFiles, acc.PartialFiles...)
	}

	log.Info().Int("partials", len(partialFiles)).Msg("partitioning index")
	shardPaths, err := index.Partition(partialFiles, shardDir)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: partition: %w", err)
	}

	tokenCounts := make(map[int]int, len(shared.documents))
	for _, d := range shared.documents {
		tokenCounts[d.DocID] = d.TokenCount
	}
	n := len(shared.documents)
	for bucket, path := range shardPaths {
		shard, err := index.LoadShard(path)
		if err != nil {
			return Result{}, fmt.Errorf("pipeline: load shard %s: %w", bucket, err)
		}
		index.Score(shard, tokenCounts, n)
		if err := writeShard(path, shard); err != nil {
			return Result{}, fmt.Errorf("pipeline: rewrite shard %s: %w", bucket, err)
		}
	}

	log.Info().Msg("running link analysis")
	graph := linkgraph.Build(shared.documents)
	authority, hub := linkgraph.HITS(graph, cfg.HITS)
	pagerank := linkgraph.PageRank(graph, cfg.PageRank)

	if err := os.MkdirAll(analyticsDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("pipeline: mkdir analytics: %w", err)
	}
	if err := writeLinkScores(filepath.Join(analyticsDir, "link_scores.json"), authority, hub, pagerank); err != nil {
		return Result{}, err
	}
	if err := writeDocuments(filepath.Join(cfg.DataDir, "documents.json"), shared.documents); err != nil {
		return Result{}, err
	}

	log.Info().Msg("serializing final index")
	seekMap, err := index.Serialize(shardPaths, filepath.Join(analyticsDir, "index"))
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: serialize: %w", err)
	}
	if err := writeJSON(filepath.Join(analyticsDir, "index_map_position.json"), seekMap); err != nil {
		return Result{}, err
	}

	return Result{
		AcceptedDocs: n,
		RejectedDups: int(shared.rejectedDup.Load()),
		SkippedBad:   int(shared.skipped.Load()),
	}, nil
}

func ingestWorker(ctx context.Context, workerID int, files []string, shared *sharedState, acc *index.Accumulator, cfg Config, log zerolog.Logger) error {
	for _, path := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rec, decErr := corpusio.ReadOne(path)
		if decErr != nil {
			log.Warn().Err(decErr).Str("path", path).Msg("skipping malformed record")
			shared.skipped.Add(1)
			continue
		}
		if !corpusio.Accepted(rec) {
			continue
		}

		extracted, err := htmlx.Extract(rec.Content, rec.Encoding, rec.URL)
		if err != nil {
			log.Warn().Err(err).Str("url", rec.URL).Msg("skipping unparseable HTML")
			shared.skipped.Add(1)
			continue
		}

		bodyTokens := tokenize.Tokenize(extracted.Body, tokenize.Index)
		fp := simhash.Compute(bodyTokens)

		docID := shared.allocID()
		doc := docmodel.Document{
			URL:           rec.URL,
			DocID:         docID,
			Simhash:       fp.String(),
			OutgoingLinks: extracted.OutgoingLinks,
		}

		if !shared.tryAccept(fp, cfg.SimilarityThreshold, doc) {
			shared.rejectedDup.Add(1)
			continue
		}

		tokenCount, err := acc.Ingest(docID, extracted.Body, extracted.WeightedText)
		if err != nil {
			return fmt.Errorf("pipeline: worker %d ingest: %w", workerID, err)
		}
		shared.acceptMu.Lock()
		for i := range shared.documents {
			if shared.documents[i].DocID == docID {
				shared.documents[i].TokenCount = tokenCount
				break
			}
		}
		shared.acceptMu.Unlock()
	}
	return nil
}

func listCorpusFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".json" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func writeShard(path string, shard docmodel.Index) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(shard)
}

func writeLinkScores(path string, authority, hub, pagerank map[string]float64) error {
	payload := map[string]interface{}{
		"hits": map[string]interface{}{
			"authority": authority,
			"hub":       hub,
		},
		"pagerank": pagerank,
	}
	return writeJSON(path, payload)
}

func writeDocuments(path string, docs []docmodel.Document) error {
	out := make(map[string]docmodel.Document, len(docs))
	for _, d := range docs {
		out[fmt.Sprintf("%d", d.DocID)] = d
	}
	return writeJSON(path, out)
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
