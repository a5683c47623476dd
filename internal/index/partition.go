package index

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SoulShadow8326/soulsearch/internal/docmodel"
)

// Buckets is the fixed 26 lowercase letters plus "misc".
var Buckets = buildBuckets()

func buildBuckets() []string {
	b := make([]string, 0, 27)
	for c := 'a'; c <= 'z'; c++ {
		b = append(b, string(c))
	}
	return append(b, "misc")
}

// BucketFor returns the shard bucket for term: its lowercased first
// character if a-z, otherwise "misc" (including the empty string).
func BucketFor(term string) string {
	if term == "" {
		return "misc"
	}
	c := term[0]
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	if c < 'a' || c > 'z' {
		return "misc"
	}
	return string(c)
}

// Partition performs an external merge: stream every partial file, route
// each (term, posting-list) entry into its bucket, and write one shard
// file per bucket under shardDir. It returns the path written for each
// non-empty bucket.
func Partition(partialPaths []string, shardDir string) (map[string]string, error) {
	shards := make(map[string]docmodel.Index, len(Buckets))
	for _, b := range Buckets {
		shards[b] = make(docmodel.Index)
	}

	for _, path := range partialPaths {
		partial, err := LoadPartial(path)
		if err != nil {
			return nil, fmt.Errorf("index: partition: %w", err)
		}
		for term, postings := range partial {
			bucket := BucketFor(term)
			shards[bucket][term] = append(shards[bucket][term], postings...)
		}
	}

	if err := os.MkdirAll(shardDir, 0o755); err != nil {
		return nil, fmt.Errorf("index: partition mkdir: %w", err)
	}

	written := make(map[string]string)
	for _, bucket := range Buckets {
		idx := shards[bucket]
		if len(idx) == 0 {
			continue
		}
		path := filepath.Join(shardDir, "index_"+bucket)
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("index: partition write: %w", err)
		}
		err = gob.NewEncoder(f).Encode(idx)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("index: partition encode: %w", err)
		}
		written[bucket] = path
	}
	return written, nil
}

// LoadShard reads one range shard back into memory.
func LoadShard(path string) (docmodel.Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	idx := make(docmodel.Index)
	if err := gob.NewDecoder(f).Decode(&idx); err != nil {
		return nil, fmt.Errorf("index: load shard %s: %w", path, err)
	}
	return idx, nil
}
