package analysis

import "github.com/pflow-xyz/biopetri/net"

// transitionGraph is the structural, transition-projected graph used by
// cycle detection and strongly-connected-component analysis: an edge
// t1 -> t2 exists whenever t1 produces to some place that t2 consumes
// from. It captures potential causal flow through the net without ever
// enumerating a reachable marking.
type transitionGraph struct {
	ids  []string
	adj  map[string][]string
}

func buildTransitionGraph(snap *net.Snapshot) *transitionGraph {
	g := &transitionGraph{adj: make(map[string][]string)}
	for _, t := range snap.Transitions {
		g.ids = append(g.ids, t.ID)
	}

	producers := make(map[string][]string) // place ID -> producing transition IDs
	consumers := make(map[string][]string) // place ID -> consuming transition IDs
	for _, t := range snap.Transitions {
		for _, a := range snap.OutputArcs(t.ID) {
			producers[a.Target] = append(producers[a.Target], t.ID)
		}
		for _, a := range snap.InputArcs(t.ID) {
			if a.Kind == net.Normal || a.Kind == net.Read {
				consumers[a.Source] = append(consumers[a.Source], t.ID)
			}
		}
	}

	seen := make(map[[2]string]bool)
	for placeID, prods := range producers {
		for _, p := range prods {
			for _, c := range consumers[placeID] {
				key := [2]string{p, c}
				if seen[key] {
					continue
				}
				seen[key] = true
				g.adj[p] = append(g.adj[p], c)
			}
		}
	}
	return g
}
