package index

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/SoulShadow8326/soulsearch/internal/docmodel"
)

// record is one (term, posting-list) entry as written to the final index
// file. It is encoded as a length-prefixed gob blob so the stream is
// self-delimiting: seeking to a recorded offset and decoding one record
// always yields exactly that term's posting list.
type record struct {
	Term     string
	Postings []docmodel.Posting
}

// Serialize concatenates every shard in shardPaths into a single
// random-access file at outPath and returns the term -> byte-offset seek
// map, implementing P10. Shards are read in bucket order for determinism;
// within a shard, terms are written in sorted order.
func Serialize(shardPaths map[string]string, outPath string) (map[string]int64, error) {
	f, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("index: serialize create: %w", err)
	}
	defer f.Close()

	seekMap := make(map[string]int64)
	var offset int64

	for _, bucket := range Buckets {
		path, ok := shardPaths[bucket]
		if !ok {
			continue
		}
		shard, err := LoadShard(path)
		if err != nil {
			return nil, fmt.Errorf("index: serialize load %s: %w", bucket, err)
		}

		terms := make([]string, 0, len(shard))
		for t := range shard {
			terms = append(terms, t)
		}
		sort.Strings(terms)

		for _, term := range terms {
			rec := record{Term: term, Postings: shard[term]}
			var buf bytes.Buffer
			if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
				return nil, fmt.Errorf("index: serialize encode %s: %w", term, err)
			}

			seekMap[term] = offset

			var lenPrefix [4]byte
			binary.BigEndian.PutUint32(lenPrefix[:], uint32(buf.Len()))
			if _, err := f.Write(lenPrefix[:]); err != nil {
				return nil, fmt.Errorf("index: serialize write len: %w", err)
			}
			n, err := f.Write(buf.Bytes())
			if err != nil {
				return nil, fmt.Errorf("index: serialize write record: %w", err)
			}
			offset += int64(len(lenPrefix)) + int64(n)
		}
	}

	return seekMap, nil
}

// ReadRecordAt seeks to offset in the index file handle f and decodes
// exactly one (term, posting-list) record.
func ReadRecordAt(f io.ReaderAt, offset int64) (term string, postings []docmodel.Posting, err error) {
	var lenPrefix [4]byte
	if _, err := f.ReadAt(lenPrefix[:], offset); err != nil {
		return "", nil, fmt.Errorf("index: read len prefix: %w", err)
	}
	n := binary.BigEndian.Uint32(lenPrefix[:])

	buf := make([]byte, n)
	if _, err := f.ReadAt(buf, offset+4); err != nil {
		return "", nil, fmt.Errorf("index: read record body: %w", err)
	}

	var rec record
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&rec); err != nil {
		return "", nil, fmt.Errorf("index: decode record: %w", err)
	}
	return rec.Term, rec.Postings, nil
}

// DecodeRange sequentially decodes every self-delimited record in a byte
// range known to hold whole records back-to-back (as produced by one
// bucket's share of Serialize's output) into a docmodel.Index. This backs
// the query engine's per-bucket shard cache: rather than reseeking the
// index file for every term, a whole bucket is decoded once and kept
// resident.
func DecodeRange(data []byte) (docmodel.Index, error) {
	idx := make(docmodel.Index)
	var pos int
	for pos < len(data) {
		if pos+4 > len(data) {
			return nil, fmt.Errorf("index: decode range: truncated length prefix at %d", pos)
		}
		n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if pos+n > len(data) {
			return nil, fmt.Errorf("index: decode range: truncated record at %d", pos)
		}
		var rec record
		if err := gob.NewDecoder(bytes.NewReader(data[pos : pos+n])).Decode(&rec); err != nil {
			return nil, fmt.Errorf("index: decode range record: %w", err)
		}
		idx[rec.Term] = rec.Postings
		pos += n
	}
	return idx, nil
}
