package analysis

// Invariant is a linear combination of places (P-invariant) or
// transitions (T-invariant) whose weighted sum is conserved across every
// firing: a P-invariant y satisfies y*C = 0 (so y*marking is constant
// for every reachable marking); a T-invariant x satisfies C*x = 0 (so
// firing the multiset x returns the marking to where it started).
type Invariant struct {
	IDs          []string
	Coefficients map[string]float64
}

// PInvariants computes a basis for the left null space of the incidence
// matrix (y such that y*C = 0) via Gaussian elimination on C^T, one row
// per transition.
func (a *Analyzer) PInvariants() []Invariant {
	placeIDs := a.mgr.PlaceIDs()
	transIDs := a.mgr.TransitionIDs()
	rows := make([][]float64, len(transIDs))
	for j, tid := range transIDs {
		row := make([]float64, len(placeIDs))
		for i, pid := range placeIDs {
			row[i] = a.mgr.Incidence(pid, tid)
		}
		rows[j] = row
	}
	basis := nullSpaceOfRows(rows)
	return toInvariants(basis, placeIDs)
}

// TInvariants computes a basis for the right null space of the
// incidence matrix (x such that C*x = 0), one row per place of C.
func (a *Analyzer) TInvariants() []Invariant {
	transIDs := a.mgr.TransitionIDs()
	placeIDs := a.mgr.PlaceIDs()
	rows := make([][]float64, len(placeIDs))
	for i, pid := range placeIDs {
		row := make([]float64, len(transIDs))
		for j, tid := range transIDs {
			row[j] = a.mgr.Incidence(pid, tid)
		}
		rows[i] = row
	}
	basis := nullSpaceOfRows(rows)
	return toInvariants(basis, transIDs)
}

func toInvariants(basis [][]float64, ids []string) []Invariant {
	var out []Invariant
	for _, vec := range basis {
		coeffs := make(map[string]float64, len(ids))
		nonzero := false
		for i, id := range ids {
			if vec[i] != 0 {
				coeffs[id] = vec[i]
				nonzero = true
			}
		}
		if nonzero {
			out = append(out, Invariant{IDs: ids, Coefficients: coeffs})
		}
	}
	return out
}

// nullSpaceOfRows computes a basis for {v : row . v = 0 for every row in
// rows} via Gauss-Jordan elimination with partial pivoting, returning
// free-variable basis vectors the standard way: reduce to row echelon
// form, then read off one basis vector per non-pivot column.
func nullSpaceOfRows(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	cols := len(rows[0])
	m := make([][]float64, len(rows))
	for i, r := range rows {
		m[i] = append([]float64(nil), r...)
	}

	const eps = 1e-9
	pivotCol := make([]int, 0, len(m))
	row := 0
	for col := 0; col < cols && row < len(m); col++ {
		pivot := -1
		best := eps
		for r := row; r < len(m); r++ {
			if abs(m[r][col]) > best {
				best = abs(m[r][col])
				pivot = r
			}
		}
		if pivot == -1 {
			continue
		}
		m[row], m[pivot] = m[pivot], m[row]
		pv := m[row][col]
		for c := 0; c < cols; c++ {
			m[row][c] /= pv
		}
		for r := 0; r < len(m); r++ {
			if r == row {
				continue
			}
			factor := m[r][col]
			if factor == 0 {
				continue
			}
			for c := 0; c < cols; c++ {
				m[r][c] -= factor * m[row][c]
			}
		}
		pivotCol = append(pivotCol, col)
		row++
	}

	isPivot := make([]bool, cols)
	for _, c := range pivotCol {
		isPivot[c] = true
	}

	var basis [][]float64
	for free := 0; free < cols; free++ {
		if isPivot[free] {
			continue
		}
		vec := make([]float64, cols)
		vec[free] = 1
		for r, c := range pivotCol {
			vec[c] = -m[r][free]
		}
		basis = append(basis, vec)
	}
	return basis
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// StructurallyBounded reports whether the net has a P-invariant with
// strictly positive coefficients on every place — a sufficient structural
// condition for boundedness regardless of the initial marking.
func (a *Analyzer) StructurallyBounded() bool {
	placeIDs := a.mgr.PlaceIDs()
	for _, inv := range a.PInvariants() {
		allPositive := true
		for _, pid := range placeIDs {
			if inv.Coefficients[pid] <= 0 {
				allPositive = false
				break
			}
		}
		if allPositive {
			return true
		}
	}
	return false
}
