// Package corpusio decodes single crawled JSON records and rejects non-HTML
// URLs before the rest of the pipeline sees them.
package corpusio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Record is one crawled page: { "url": "...", "content": "...", "encoding": "..." }.
type Record struct {
	URL      string `json:"url"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Malformed reports that a single record failed to parse; it is never
// fatal to the overall ingestion run.
type Malformed struct {
	Path string
	Err  error
}

func (m *Malformed) Error() string {
	return fmt.Sprintf("corpusio: malformed record at %s: %v", m.Path, m.Err)
}

func (m *Malformed) Unwrap() error { return m.Err }

// ReadOne decodes a single corpus record from path, wrapping any I/O or
// decode failure in a *Malformed so callers can distinguish a bad record
// from a genuinely fatal error.
func ReadOne(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, &Malformed{Path: path, Err: err}
	}
	defer f.Close()

	var rec Record
	dec := json.NewDecoder(bufio.NewReader(f))
	if err := dec.Decode(&rec); err != nil {
		return Record{}, &Malformed{Path: path, Err: err}
	}
	if rec.URL == "" {
		return Record{}, &Malformed{Path: path, Err: fmt.Errorf("missing url field")}
	}
	return rec, nil
}

// Accepted reports whether a record should proceed into the pipeline: it
// must have parsed successfully and its URL must not end in ".txt".
func Accepted(rec Record) bool {
	return rec.URL != "" && !strings.HasSuffix(strings.ToLower(rec.URL), ".txt")
}
