package analysis

import "math"

// Hub describes one node's structural prominence: its raw degree (arc
// count touching it) and its eigenvector centrality within the net's
// bipartite place/transition graph.
type Hub struct {
	ID         string
	Degree     int
	Centrality float64
}

// Hubs ranks every place and transition by eigenvector centrality over
// the net's bipartite adjacency graph, computed by power iteration —
// the same technique used for Perron-Frobenius dominant-eigenvector
// problems generally. Results are sorted most-central first.
func (a *Analyzer) Hubs(maxIter int, tol float64) []Hub {
	placeIDs := a.mgr.PlaceIDs()
	transIDs := a.mgr.TransitionIDs()
	n := len(placeIDs) + len(transIDs)
	if n == 0 {
		return nil
	}

	idx := make(map[string]int, n)
	for i, id := range placeIDs {
		idx[id] = i
	}
	for j, id := range transIDs {
		idx[id] = len(placeIDs) + j
	}

	adj := make([][]float64, n)
	for i := range adj {
		adj[i] = make([]float64, n)
	}
	degree := make([]int, n)

	for _, arc := range a.snap.Arcs {
		si, siOK := idx[arc.Source]
		ti, tiOK := idx[arc.Target]
		if !siOK || !tiOK {
			continue
		}
		adj[si][ti] += arc.Weight
		adj[ti][si] += arc.Weight
		degree[si]++
		degree[ti]++
	}

	v := make([]float64, n)
	for i := range v {
		v[i] = 1.0 / math.Sqrt(float64(n))
	}

	for iter := 0; iter < maxIter; iter++ {
		w := make([]float64, n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				w[i] += adj[i][j] * v[j]
			}
		}
		norm := 0.0
		for _, x := range w {
			norm += x * x
		}
		norm = math.Sqrt(norm)
		if norm < 1e-15 {
			break
		}
		residual := 0.0
		for i := range w {
			w[i] /= norm
			residual += (w[i] - v[i]) * (w[i] - v[i])
		}
		v = w
		if math.Sqrt(residual) < tol {
			break
		}
	}

	ids := append(append([]string{}, placeIDs...), transIDs...)
	hubs := make([]Hub, n)
	for i, id := range ids {
		hubs[i] = Hub{ID: id, Degree: degree[i], Centrality: v[i]}
	}
	sortHubsDescending(hubs)
	return hubs
}

func sortHubsDescending(hubs []Hub) {
	for i := 1; i < len(hubs); i++ {
		for j := i; j > 0 && hubs[j].Centrality > hubs[j-1].Centrality; j-- {
			hubs[j], hubs[j-1] = hubs[j-1], hubs[j]
		}
	}
}
