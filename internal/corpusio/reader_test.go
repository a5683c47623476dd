package corpusio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestReadOneDecodesRecord(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"url":"http://x.test/a.html","content":"<p>a</p>","encoding":"utf-8"}`)

	rec, err := ReadOne(filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	assert.Equal(t, "http://x.test/a.html", rec.URL)
	assert.Equal(t, "<p>a</p>", rec.Content)
}

func TestReadOneReportsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.json", `not json`)

	_, err := ReadOne(filepath.Join(dir, "bad.json"))
	require.Error(t, err)
	var malformed *Malformed
	assert.ErrorAs(t, err, &malformed)
}

func TestReadOneRejectsMissingURL(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nourl.json", `{"content":"<p>c</p>"}`)

	_, err := ReadOne(filepath.Join(dir, "nourl.json"))
	require.Error(t, err)
}

func TestAccepted(t *testing.T) {
	assert.True(t, Accepted(Record{URL: "http://x.test/a.html"}))
	assert.False(t, Accepted(Record{URL: "http://x.test/a.TXT"}))
	assert.False(t, Accepted(Record{URL: ""}))
}
