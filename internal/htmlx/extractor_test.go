package htmlx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBodyUsesParagraphsWhenUTF8(t *testing.T) {
	html := `<html><body><p>Hello world</p><p>Second para</p></body></html>`
	ex, err := Extract(html, "utf-8", "http://x.test/a")
	require.NoError(t, err)
	assert.Equal(t, "Hello world Second para", ex.Body)
}

func TestExtractBodyFallsBackWithoutParagraphs(t *testing.T) {
	html := `<html><body><div>plain text only</div></body></html>`
	ex, err := Extract(html, "utf-8", "http://x.test/a")
	require.NoError(t, err)
	assert.Contains(t, ex.Body, "plain text only")
}

func TestExtractWeightedTagsSumRepeatedText(t *testing.T) {
	html := `<html><head><title>rust</title></head><body><h1>rust</h1></body></html>`
	ex, err := Extract(html, "utf-8", "http://x.test/a")
	require.NoError(t, err)
	assert.Equal(t, 3.5, ex.WeightedText["rust"])
}

func TestExtractLinksResolvesRelative(t *testing.T) {
	html := `<html><body><a href="/page2">link</a></body></html>`
	ex, err := Extract(html, "utf-8", "http://x.test/dir/a.html")
	require.NoError(t, err)
	require.Len(t, ex.OutgoingLinks, 1)
	assert.Equal(t, "http://x.test/page2", ex.OutgoingLinks[0])
}

func TestCleanTextStripsNonASCIIAndHyphens(t *testing.T) {
	got := cleanText("café-au-lait   has  spaces")
	assert.Equal(t, "caf au lait has spaces", got)
}
