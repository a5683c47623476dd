package linkgraph

// PageRankConfig holds PageRank convergence parameters.
type PageRankConfig struct {
	Damping       float64
	MaxIterations int
	Threshold     float64
}

// DefaultPageRankConfig is the standard configuration.
var DefaultPageRankConfig = PageRankConfig{Damping: 0.85, MaxIterations: 100, Threshold: 1e-4}

// PageRank computes the damped random-walk stationary distribution over g:
// B[i][j] = 1/out-degree(j) when j links to i (out-degree counts ALL of
// j's outgoing links, including ones outside the corpus). Converges when
// the L1 delta between iterations drops below cfg.Threshold, then scales
// by 1000.
func PageRank(g *Graph, cfg PageRankConfig) map[string]float64 {
	n := g.N()
	result := make(map[string]float64, n)
	if n == 0 {
		return result
	}

	inEdges := g.In()

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / float64(n)
	}

	base := (1 - cfg.Damping) / float64(n)

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		next := make([]float64, n)
		for i := 0; i < n; i++ {
			var sum float64
			for _, j := range inEdges[i] {
				if g.OutDegree[j] > 0 {
					sum += scores[j] / float64(g.OutDegree[j])
				}
			}
			next[i] = base + cfg.Damping*sum
		}

		delta := l1Delta(next, scores)
		scores = next
		if delta < cfg.Threshold {
			break
		}
	}

	for i, url := range g.URLs {
		result[url] = scores[i] * 1000
	}
	return result
}
