package analysis

// maxExhaustivePlaces bounds the place count below which siphon/trap
// search is exhaustive (2^n subsets). Beyond it, only singleton and pair
// candidates are checked — a net large enough to hit this is well beyond
// what this core's structural analyses are meant to characterize by hand
// anyway; larger-scale invariant-based siphon computation is future work,
// not attempted here.
const maxExhaustivePlaces = 20

// Siphons returns every siphon found: a nonempty set of places S such
// that every transition producing into S also consumes from S (a siphon,
// once empty, can never refill).
func (a *Analyzer) Siphons() [][]string {
	return a.findStructuralSets(isSiphon)
}

// Traps returns every trap found: a nonempty set of places S such that
// every transition consuming from S also produces into S (a trap, once
// marked, can never fully empty).
func (a *Analyzer) Traps() [][]string {
	return a.findStructuralSets(isTrap)
}

func (a *Analyzer) findStructuralSets(check func(set map[string]bool, produces, consumes map[string][]string) bool) [][]string {
	placeIDs := a.mgr.PlaceIDs()
	produces := make(map[string][]string) // place -> transitions producing into it
	consumes := make(map[string][]string) // place -> transitions consuming from it
	for _, t := range a.snap.Transitions {
		for _, arc := range a.snap.OutputArcs(t.ID) {
			produces[arc.Target] = append(produces[arc.Target], t.ID)
		}
		for _, arc := range a.snap.InputArcs(t.ID) {
			consumes[arc.Source] = append(consumes[arc.Source], t.ID)
		}
	}

	var results [][]string
	if len(placeIDs) <= maxExhaustivePlaces {
		n := len(placeIDs)
		for mask := 1; mask < (1 << n); mask++ {
			set := make(map[string]bool)
			for i := 0; i < n; i++ {
				if mask&(1<<i) != 0 {
					set[placeIDs[i]] = true
				}
			}
			if check(set, produces, consumes) {
				results = append(results, setToSlice(set))
			}
		}
		return results
	}

	// Large net fallback: only test singletons and pairs.
	for i := range placeIDs {
		set := map[string]bool{placeIDs[i]: true}
		if check(set, produces, consumes) {
			results = append(results, setToSlice(set))
		}
		for j := i + 1; j < len(placeIDs); j++ {
			pair := map[string]bool{placeIDs[i]: true, placeIDs[j]: true}
			if check(pair, produces, consumes) {
				results = append(results, setToSlice(pair))
			}
		}
	}
	return results
}

func isSiphon(set map[string]bool, produces, consumes map[string][]string) bool {
	for p := range set {
		for _, t := range produces[p] {
			if !anyInSet(consumes, t, set) {
				return false
			}
		}
	}
	return true
}

func isTrap(set map[string]bool, produces, consumes map[string][]string) bool {
	for p := range set {
		for _, t := range consumes[p] {
			if !anyInSet(produces, t, set) {
				return false
			}
		}
	}
	return true
}

// anyInSet reports whether transition t appears in roleMap for any place
// in set (i.e. whether t's input, or output, touches the set).
func anyInSet(roleMap map[string][]string, t string, set map[string]bool) bool {
	for p := range set {
		for _, candidate := range roleMap[p] {
			if candidate == t {
				return true
			}
		}
	}
	return false
}

func setToSlice(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
