package analysis

// ShortestPath finds the shortest bipartite-graph path from fromID to
// toID (either may be a place or a transition ID) by breadth-first
// search, returning the sequence of node IDs from source to target, or
// nil if unreachable.
func (a *Analyzer) ShortestPath(fromID, toID string) []string {
	adj := a.bipartiteAdjacency()
	if fromID == toID {
		return []string{fromID}
	}

	visited := map[string]bool{fromID: true}
	prev := map[string]string{}
	queue := []string{fromID}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if visited[next] {
				continue
			}
			visited[next] = true
			prev[next] = cur
			if next == toID {
				return reconstructPath(prev, fromID, toID)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

// KShortestPaths finds up to k distinct shortest-to-longest simple paths
// from fromID to toID, using a simplified Yen's-algorithm approach: the
// shortest path is found, then each of its edges is removed in turn and
// the next-shortest alternative recomputed, keeping the best new
// candidate each round.
func (a *Analyzer) KShortestPaths(fromID, toID string, k int) [][]string {
	first := a.ShortestPath(fromID, toID)
	if first == nil {
		return nil
	}
	results := [][]string{first}
	seen := map[string]bool{pathKey(first): true}

	for len(results) < k {
		base := results[len(results)-1]
		var candidate []string
		for i := 0; i < len(base)-1; i++ {
			removedFrom, removedTo := base[i], base[i+1]
			alt := a.shortestPathExcluding(fromID, toID, removedFrom, removedTo)
			if alt != nil && !seen[pathKey(alt)] {
				if candidate == nil || len(alt) < len(candidate) {
					candidate = alt
				}
			}
		}
		if candidate == nil {
			break
		}
		seen[pathKey(candidate)] = true
		results = append(results, candidate)
	}
	return results
}

func (a *Analyzer) shortestPathExcluding(fromID, toID, excludeFrom, excludeTo string) []string {
	adj := a.bipartiteAdjacency()
	visited := map[string]bool{fromID: true}
	prev := map[string]string{}
	queue := []string{fromID}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if cur == excludeFrom && next == excludeTo {
				continue
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			prev[next] = cur
			if next == toID {
				return reconstructPath(prev, fromID, toID)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func (a *Analyzer) bipartiteAdjacency() map[string][]string {
	adj := make(map[string][]string)
	for _, arc := range a.snap.Arcs {
		adj[arc.Source] = append(adj[arc.Source], arc.Target)
		adj[arc.Target] = append(adj[arc.Target], arc.Source)
	}
	return adj
}

func reconstructPath(prev map[string]string, from, to string) []string {
	var path []string
	for cur := to; ; {
		path = append([]string{cur}, path...)
		if cur == from {
			break
		}
		cur = prev[cur]
	}
	return path
}

func pathKey(path []string) string {
	key := ""
	for _, id := range path {
		key += id + ">"
	}
	return key
}
