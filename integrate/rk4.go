// Package integrate implements fixed-step RK4 integration for the
// continuous transitions of a hybrid net: a flow rate function supplies
// dM/dt given the current marking and time, and Step advances it by one
// fixed time increment with per-substep non-negativity clamping so a
// transient negative Runge-Kutta stage never drives a place marking
// below zero mid-integration.
package integrate

// RateFunc computes dM/dt (place ID -> flow) given the current time and
// marking (place ID -> token count).
type RateFunc func(t float64, marking map[string]float64) map[string]float64

// Step advances marking by one fixed step of size h using classic RK4,
// clamping every intermediate stage state to non-negative values before
// it is fed back into f. The returned map is a new state; marking is
// left untouched.
func Step(f RateFunc, t float64, marking map[string]float64, h float64) map[string]float64 {
	k1 := f(t, marking)

	s2 := advance(marking, k1, h/2)
	k2 := f(t+h/2, s2)

	s3 := advance(marking, k2, h/2)
	k3 := f(t+h/2, s3)

	s4 := advance(marking, k3, h)
	k4 := f(t+h, s4)

	next := make(map[string]float64, len(marking))
	for id, v := range marking {
		next[id] = v + (h/6)*(k1[id]+2*k2[id]+2*k3[id]+k4[id])
	}
	clampNonNegative(next)
	return next
}

// advance computes marking + scale*deriv, clamped to non-negative, for
// use as an intermediate RK4 stage state.
func advance(marking, deriv map[string]float64, scale float64) map[string]float64 {
	out := make(map[string]float64, len(marking))
	for id, v := range marking {
		out[id] = v + scale*deriv[id]
	}
	clampNonNegative(out)
	return out
}

func clampNonNegative(m map[string]float64) {
	for id, v := range m {
		if v < 0 {
			m[id] = 0
		}
	}
}

// Integrate runs Step repeatedly from t0 for the given number of fixed
// steps of size h, returning the time points and the marking at each
// (including the initial state at index 0).
func Integrate(f RateFunc, t0 float64, marking map[string]float64, h float64, steps int) ([]float64, []map[string]float64) {
	times := make([]float64, 0, steps+1)
	states := make([]map[string]float64, 0, steps+1)

	times = append(times, t0)
	states = append(states, copyState(marking))

	cur := copyState(marking)
	t := t0
	for i := 0; i < steps; i++ {
		cur = Step(f, t, cur, h)
		t += h
		times = append(times, t)
		states = append(states, copyState(cur))
	}
	return times, states
}

func copyState(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
