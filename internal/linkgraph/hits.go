package linkgraph

// HITSConfig holds HITS convergence parameters.
type HITSConfig struct {
	MaxIterations int
	Threshold     float64
}

// DefaultHITSConfig is the standard configuration: 20 iterations, 1e-4 threshold.
var DefaultHITSConfig = HITSConfig{MaxIterations: 20, Threshold: 1e-4}

// HITS computes hub and authority scores over g via power iteration:
// initialize hub=auth=1/N, repeat auth <- A^T.hub (L1-normalized) then
// hub <- A.auth (L1-normalized), stopping early once both vectors' max
// per-component delta falls below cfg.Threshold. Final vectors are scaled
// by 10 and returned as URL -> score maps.
func HITS(g *Graph, cfg HITSConfig) (authority, hub map[string]float64) {
	n := g.N()
	authority = make(map[string]float64, n)
	hub = make(map[string]float64, n)
	if n == 0 {
		return
	}

	inEdges := g.In()

	authVec := make([]float64, n)
	hubVec := make([]float64, n)
	for i := range authVec {
		authVec[i] = 1.0 / float64(n)
		hubVec[i] = 1.0 / float64(n)
	}

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		newAuth := make([]float64, n)
		for i := 0; i < n; i++ {
			var sum float64
			for _, from := range inEdges[i] {
				sum += hubVec[from]
			}
			newAuth[i] = sum
		}
		l1Normalize(newAuth)

		newHub := make([]float64, n)
		for i := 0; i < n; i++ {
			var sum float64
			for _, to := range g.Out[i] {
				sum += newAuth[to]
			}
			newHub[i] = sum
		}
		l1Normalize(newHub)

		authDelta := maxAbsDelta(newAuth, authVec)
		hubDelta := maxAbsDelta(newHub, hubVec)

		authVec, hubVec = newAuth, newHub
		if authDelta < cfg.Threshold && hubDelta < cfg.Threshold {
			break
		}
	}

	for i, url := range g.URLs {
		authority[url] = authVec[i] * 10
		hub[url] = hubVec[i] * 10
	}
	return authority, hub
}
