// Package query serves ranked searches against a built index: query
// tokenization, posting retrieval via the random-access seek map,
// multi-signal ranking, and top-k selection.
package query

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/SoulShadow8326/soulsearch/internal/docmodel"
	"github.com/SoulShadow8326/soulsearch/internal/index"
	"github.com/SoulShadow8326/soulsearch/internal/tokenize"
)

// Weights are the five ranking coefficients combined into a final score.
type Weights struct {
	TFIDF    float64
	Cosine   float64
	Coverage float64
	Auth     float64
	Hub      float64
}

// DefaultWeights is the standard weighting: tfidf 0.15, cosine 0.15,
// coverage 0.40, authority 0.15, hub 0.15.
var DefaultWeights = Weights{TFIDF: 0.15, Cosine: 0.15, Coverage: 0.40, Auth: 0.15, Hub: 0.15}

// Result is one ranked hit: url, score, and which query terms matched.
type Result struct {
	URL          string
	Score        float64
	MatchedTerms []string
}

type linkScores struct {
	Authority map[string]float64
	Hub       map[string]float64
	PageRank  map[string]float64
}

// Engine is the query-time state machine: Open loads document metadata and
// link scores, after which the Engine is ready to serve concurrent
// read-only Search calls. The shard cache is a bounded LRU whose capacity
// is given to Open (27 by default, one slot per alphabet bucket), safe for
// concurrent use via
// golang-lru/v2's internal locking.
type Engine struct {
	indexPath string
	seekMap   map[string]int64

	documents map[int]docmodel.Document
	titles    map[string]string
	scores    linkScores

	mu          sync.Mutex
	indexFile   *os.File
	shardLRU    *lru.Cache[string, docmodel.Index]
	bucketRange map[string][2]int64

	weights Weights
}

// Open loads documents.json, the seek map, and link-score tables from
// dataDir's layout, and opens the concatenated index file for
// random-access reads, transitioning the Engine from uninitialized to
// ready.
func Open(dataDir string, cacheCapacity int, weights Weights) (*Engine, error) {
	analyticsDir := filepath.Join(dataDir, "full_analytics")

	docs, err := loadDocuments(filepath.Join(dataDir, "documents.json"))
	if err != nil {
		return nil, fmt.Errorf("query: load documents: %w", err)
	}

	seekMap, err := loadSeekMap(filepath.Join(analyticsDir, "index_map_position.json"))
	if err != nil {
		return nil, fmt.Errorf("query: load seek map: %w", err)
	}

	scores, err := loadLinkScores(filepath.Join(analyticsDir, "link_scores.json"))
	if err != nil {
		// File-not-found for link-score files is not fatal — computing and
		// persisting them is the caller's responsibility during a build; the
		// query engine simply serves zero-valued scores until that happens.
		scores = linkScores{Authority: map[string]float64{}, Hub: map[string]float64{}, PageRank: map[string]float64{}}
	}

	titles := loadTitles(filepath.Join(analyticsDir, "doc_titles.json"))

	indexPath := filepath.Join(analyticsDir, "index")
	f, err := os.Open(indexPath)
	if err != nil {
		return nil, fmt.Errorf("query: open index file: %w", err)
	}

	if cacheCapacity <= 0 {
		cacheCapacity = 27
	}
	cache, err := lru.New[string, docmodel.Index](cacheCapacity)
	if err != nil {
		return nil, fmt.Errorf("query: create shard cache: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("query: stat index file: %w", err)
	}

	return &Engine{
		indexPath:   indexPath,
		seekMap:     seekMap,
		documents:   docs,
		titles:      titles,
		scores:      scores,
		indexFile:   f,
		shardLRU:    cache,
		bucketRange: bucketRanges(seekMap, fi.Size()),
		weights:     weights,
	}, nil
}

// bucketRanges derives each non-empty bucket's contiguous byte span in the
// serialized index file from the seek map alone: Serialize writes buckets
// back-to-back in Buckets order, so a bucket's span runs from the smallest
// offset among its terms to the smallest offset belonging to the next
// non-empty bucket (or end-of-file for the last one).
func bucketRanges(seekMap map[string]int64, fileSize int64) map[string][2]int64 {
	starts := make(map[string]int64)
	for term, off := range seekMap {
		b := index.BucketFor(term)
		if cur, ok := starts[b]; !ok || off < cur {
			starts[b] = off
		}
	}

	type bucketStart struct {
		bucket string
		start  int64
	}
	ordered := make([]bucketStart, 0, len(starts))
	for b, s := range starts {
		ordered = append(ordered, bucketStart{b, s})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].start < ordered[j].start })

	ranges := make(map[string][2]int64, len(ordered))
	for i, bs := range ordered {
		end := fileSize
		if i+1 < len(ordered) {
			end = ordered[i+1].start
		}
		ranges[bs.bucket] = [2]int64{bs.start, end}
	}
	return ranges
}

// Close releases the engine's long-lived file handle.
func (e *Engine) Close() error {
	return e.indexFile.Close()
}

// Search tokenizes the query, scores candidate documents, and ranks them.
// It is pure: it never mutates the on-disk index or seek map, and is safe
// for concurrent use.
func (e *Engine) Search(queryText string, k int) ([]Result, error) {
	queryTerms := tokenize.Tokenize(queryText, tokenize.Query)
	if len(queryTerms) == 0 {
		return nil, nil
	}

	qCount := make(map[string]int)
	for _, t := range queryTerms {
		qCount[t]++
	}
	qLen := float64(len(queryTerms))
	qv := make(map[string]float64, len(qCount))
	for t, c := range qCount {
		qv[t] = float64(c) / qLen
	}

	partialScore := make(map[int]float64)
	matchedTerms := make(map[int]map[string]struct{}) // doc -> set of matched query terms

	for t := range qCount {
		postings, ok := e.postingsFor(t)
		if !ok {
			continue // missing seek-map entry: term contributes zero
		}
		for _, p := range postings {
			partialScore[p.DocID] += p.TFIDF * qv[t]
			if matchedTerms[p.DocID] == nil {
				matchedTerms[p.DocID] = make(map[string]struct{})
			}
			matchedTerms[p.DocID][t] = struct{}{}
		}
	}

	if len(partialScore) == 0 {
		return nil, nil
	}

	results := make([]Result, 0, len(partialScore))
	for docID, s := range partialScore {
		doc, ok := e.documents[docID]
		if !ok {
			return nil, fmt.Errorf("query: posting references unknown doc_id %d", docID)
		}

		// The document vector repeats the doc's single accumulated score at
		// every matched-term dimension, not a per-term contribution.
		dv := make(map[string]float64, len(matchedTerms[docID]))
		for t := range matchedTerms[docID] {
			dv[t] = s
		}

		cosine := cosineSimilarity(qv, dv)
		coverage := float64(len(matchedTerms[docID])) / float64(len(qCount))
		auth := e.scores.Authority[doc.URL]
		hub := e.scores.Hub[doc.URL]

		final := e.weights.TFIDF*s +
			e.weights.Cosine*cosine +
			e.weights.Coverage*coverage +
			e.weights.Auth*auth +
			e.weights.Hub*hub

		matched := make([]string, 0, len(matchedTerms[docID]))
		for t := range matchedTerms[docID] {
			matched = append(matched, t)
		}
		sort.Strings(matched)

		results = append(results, Result{
			URL:          stripFragment(doc.URL),
			Score:        final,
			MatchedTerms: matched,
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// postingsFor resolves a term to its posting list using the bucket-level
// shard cache (27 slots by default, one per alphabet bucket): on a cache
// miss the whole bucket's byte range is decoded once via the seek map and
// kept resident; subsequent lookups in the same bucket are in-memory map
// reads. A missing seek-map entry means the term contributes zero results.
func (e *Engine) postingsFor(term string) ([]docmodel.Posting, bool) {
	if _, ok := e.seekMap[term]; !ok {
		return nil, false
	}
	bucket := index.BucketFor(term)

	e.mu.Lock()
	defer e.mu.Unlock()

	shard, ok := e.shardLRU.Get(bucket)
	if !ok {
		var err error
		shard, err = e.loadBucket(bucket)
		if err != nil {
			return nil, false
		}
		e.shardLRU.Add(bucket, shard)
	}

	postings, ok := shard[term]
	return postings, ok
}

func (e *Engine) loadBucket(bucket string) (docmodel.Index, error) {
	span, ok := e.bucketRange[bucket]
	if !ok {
		return docmodel.Index{}, nil
	}
	size := span[1] - span[0]
	buf := make([]byte, size)
	if _, err := e.indexFile.ReadAt(buf, span[0]); err != nil {
		return nil, fmt.Errorf("query: read bucket %s: %w", bucket, err)
	}
	return index.DecodeRange(buf)
}

// Title returns the display title for url, falling back to the url itself
// when doc_titles.json has no entry — a supplemented, non-fatal behavior
// beyond just erroring on a missing optional artifact.
func (e *Engine) Title(docURL string) string {
	if t, ok := e.titles[docURL]; ok {
		return t
	}
	return docURL
}

func cosineSimilarity(qv map[string]float64, dv map[string]float64) float64 {
	dims := make(map[string]struct{}, len(qv)+len(dv))
	for t := range qv {
		dims[t] = struct{}{}
	}
	for t := range dv {
		dims[t] = struct{}{}
	}

	var dot, qNorm, dNorm float64
	for t := range dims {
		qx := qv[t]
		dx := dv[t]
		dot += qx * dx
		qNorm += qx * qx
		dNorm += dx * dx
	}
	if qNorm == 0 || dNorm == 0 {
		return 0
	}
	return dot / (math.Sqrt(qNorm) * math.Sqrt(dNorm))
}

func stripFragment(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Fragment = ""
	return u.String()
}

func loadDocuments(path string) (map[int]docmodel.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var raw map[string]docmodel.Document
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, err
	}
	docs := make(map[int]docmodel.Document, len(raw))
	for _, d := range raw {
		docs[d.DocID] = d
	}
	return docs, nil
}

func loadSeekMap(path string) (map[string]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var m map[string]int64
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

func loadLinkScores(path string) (linkScores, error) {
	f, err := os.Open(path)
	if err != nil {
		return linkScores{}, err
	}
	defer f.Close()

	var raw struct {
		HITS struct {
			Authority map[string]float64 `json:"authority"`
			Hub       map[string]float64 `json:"hub"`
		} `json:"hits"`
		PageRank map[string]float64 `json:"pagerank"`
	}
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return linkScores{}, err
	}
	return linkScores{Authority: raw.HITS.Authority, Hub: raw.HITS.Hub, PageRank: raw.PageRank}, nil
}

func loadTitles(path string) map[string]string {
	f, err := os.Open(path)
	if err != nil {
		return map[string]string{}
	}
	defer f.Close()

	var titles map[string]string
	if json.NewDecoder(f).Decode(&titles) != nil {
		return map[string]string{}
	}
	return titles
}
