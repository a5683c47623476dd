// Package htmlx extracts body text, weighted-tag text, and outbound links
// from a raw HTML document, built on goquery's tag-selector idiom instead
// of manual recursive node walking.
package htmlx

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TagWeights is the fixed weighted-tag table. Order doesn't matter for
// scoring (weights for identical text across tags sum), but is kept
// stable here for deterministic iteration in tests.
var TagWeights = []struct {
	Tag    string
	Weight float64
}{
	{"title", 2.0},
	{"h1", 1.5},
	{"h2", 1.0},
	{"h3", 0.75},
	{"b", 0.5},
	{"strong", 0.5},
}

var (
	nonASCII  = regexp.MustCompile(`[\x80-\x{10FFFF}]`)
	multiSpan = regexp.MustCompile(`\s+`)
)

// Extracted holds the three products of HTML extraction: cleaned body
// text, accumulated weighted-tag text -> weight, and resolved outbound
// links.
type Extracted struct {
	Body          string
	WeightedText  map[string]float64
	OutgoingLinks []string
}

// Extract parses html (the crawler record's content field) and produces
// the body text, weighted-tag map, and outbound link list, resolving
// relative links against docURL.
func Extract(html, encoding, docURL string) (Extracted, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Extracted{}, err
	}

	body := extractBody(doc, encoding)
	weighted := extractWeightedText(doc)
	links := extractLinks(doc, docURL)

	return Extracted{
		Body:          cleanText(body),
		WeightedText:  weighted,
		OutgoingLinks: links,
	}, nil
}

// extractBody implements the body-text rule: utf-8 encoding with at
// least one <p> element joins all paragraph text with single spaces;
// otherwise the whole document's text is used.
func extractBody(doc *goquery.Document, encoding string) string {
	paragraphs := doc.Find("p")
	if strings.EqualFold(encoding, "utf-8") && paragraphs.Length() > 0 {
		texts := make([]string, 0, paragraphs.Length())
		paragraphs.Each(func(_ int, s *goquery.Selection) {
			texts = append(texts, strings.TrimSpace(s.Text()))
		})
		return strings.Join(texts, " ")
	}
	return doc.Text()
}

// extractWeightedText collects text -> accumulated weight for every
// occurrence of every tag in TagWeights. Repeated identical text across
// multiple matching tags (of the same or different tags) sums weights.
func extractWeightedText(doc *goquery.Document) map[string]float64 {
	acc := make(map[string]float64)
	for _, tw := range TagWeights {
		doc.Find(tw.Tag).Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text == "" {
				return
			}
			acc[text] += tw.Weight
		})
	}
	return acc
}

// extractLinks collects every <a href> and resolves it to an absolute URL
// against base via url.Parse + ResolveReference.
func extractLinks(doc *goquery.Document, base string) []string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		links = append(links, baseURL.ResolveReference(ref).String())
	})
	return links
}

// cleanText removes non-ASCII bytes, replaces hyphens with spaces, and
// collapses whitespace.
func cleanText(s string) string {
	s = nonASCII.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "-", " ")
	s = multiSpan.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
