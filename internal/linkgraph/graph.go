// Package linkgraph computes HITS and PageRank over the in-corpus
// outgoing-link graph. The cyclic link graph is represented as
// compressed sparse-row adjacency lists rather than a dense matrix or
// pointer graph.
package linkgraph

import "github.com/SoulShadow8326/soulsearch/internal/docmodel"

// Graph is a CSR-style sparse adjacency structure: URLs are assigned dense
// indices, and Out holds each node's outgoing edge list by index. Only
// edges whose target is itself a node in the graph are kept; non-corpus
// link targets are discarded.
type Graph struct {
	URLs       []string
	index      map[string]int
	Out        [][]int // Out[i] = indices of documents i links to (in-corpus only)
	OutDegree  []int   // total outgoing link count, including out-of-corpus targets
}

// Build constructs a Graph from accepted documents, keyed by URL. Per the
// reference's PageRank construction, OutDegree counts every outgoing link
// (even ones to URLs outside the corpus), while Out itself only contains
// in-corpus edges — the two differ whenever a document links externally.
func Build(docs []docmodel.Document) *Graph {
	g := &Graph{
		index: make(map[string]int, len(docs)),
	}
	for i, d := range docs {
		g.URLs = append(g.URLs, d.URL)
		g.index[d.URL] = i
	}
	g.Out = make([][]int, len(docs))
	g.OutDegree = make([]int, len(docs))

	for i, d := range docs {
		g.OutDegree[i] = len(d.OutgoingLinks)
		for _, link := range d.OutgoingLinks {
			if j, ok := g.index[link]; ok {
				g.Out[i] = append(g.Out[i], j)
			}
		}
	}
	return g
}

// N returns the number of nodes in the graph.
func (g *Graph) N() int { return len(g.URLs) }

// In returns, for each node, the indices of nodes that link to it
// (in-corpus only), derived from Out.
func (g *Graph) In() [][]int {
	in := make([][]int, g.N())
	for from, edges := range g.Out {
		for _, to := range edges {
			in[to] = append(in[to], from)
		}
	}
	return in
}

func l1Normalize(v []float64) {
	var sum float64
	for _, x := range v {
		if x < 0 {
			sum += -x
		} else {
			sum += x
		}
	}
	if sum == 0 {
		return
	}
	for i := range v {
		v[i] /= sum
	}
}

func l1Delta(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum
}

func maxAbsDelta(a, b []float64) float64 {
	var m float64
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		if d > m {
			m = d
		}
	}
	return m
}
