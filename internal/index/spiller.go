package index

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SoulShadow8326/soulsearch/internal/docmodel"
)

// approxPostingSize estimates the resident bytes of one posting for the
// spill-threshold counter: fixed fields plus one int per position.
func approxPostingSize(p docmodel.Posting) int64 {
	return 32 + int64(8*len(p.Positions))
}

// Accumulator is a single worker's local in-memory inverted index; no
// sharing across workers. It tracks an approximate byte size so the
// Spiller can decide when to flush.
type Accumulator struct {
	Index       docmodel.Index
	size        int64
	maxSize     int64
	partialDir  string
	workerID    int
	partialSeq  int
	PartialFiles []string
}

// NewAccumulator constructs an empty accumulator that spills to partialDir
// when its approximate size exceeds maxSize, naming partials
// partial_w{workerID}_{k}.
func NewAccumulator(partialDir string, workerID int, maxSize int64) *Accumulator {
	return &Accumulator{
		Index:      make(docmodel.Index),
		maxSize:    maxSize,
		partialDir: partialDir,
		workerID:   workerID,
	}
}

// Ingest builds postings for one document and updates the size counter
// from only the postings that document just added, so the cost of a
// document is proportional to its own term count rather than the
// accumulator's current resident size. Size is rechecked after each
// document is folded in, so a spill only happens once the running total
// crosses the threshold.
func (a *Accumulator) Ingest(docID int, body string, weighted map[string]float64) (tokenCount int, err error) {
	var added []Added
	tokenCount, added = BuildPostings(a.Index, docID, body, weighted)

	for _, ap := range added {
		a.size += approxPostingSize(ap.Posting) + int64(len(ap.Term)) + 16
	}

	if a.maxSize > 0 && a.size > a.maxSize {
		if serr := a.Spill(); serr != nil {
			return tokenCount, serr
		}
	}
	return tokenCount, nil
}

// Spill writes the entire in-memory index to a numbered partial file and
// clears the in-memory map. A no-op on an empty index.
func (a *Accumulator) Spill() error {
	if len(a.Index) == 0 {
		return nil
	}
	if err := os.MkdirAll(a.partialDir, 0o755); err != nil {
		return fmt.Errorf("index: spill mkdir: %w", err)
	}
	name := fmt.Sprintf("partial_w%d_%d", a.workerID, a.partialSeq)
	path := filepath.Join(a.partialDir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("index: spill create: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(a.Index); err != nil {
		return fmt.Errorf("index: spill encode: %w", err)
	}

	a.PartialFiles = append(a.PartialFiles, path)
	a.partialSeq++
	a.Index = make(docmodel.Index)
	a.size = 0
	return nil
}

// Flush spills any residual in-memory index after the last document has
// been processed.
func (a *Accumulator) Flush() error {
	return a.Spill()
}

// LoadPartial reads one partial index file back into memory, used by the
// RangePartitioner's external merge.
func LoadPartial(path string) (docmodel.Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	idx := make(docmodel.Index)
	if err := gob.NewDecoder(f).Decode(&idx); err != nil {
		return nil, fmt.Errorf("index: load partial %s: %w", path, err)
	}
	return idx, nil
}
