package sim

// Settings configures a Controller's step algorithm.
type Settings struct {
	ConflictPolicy ConflictPolicy

	// StepSize is the simulated-time increment StepDefault passes to
	// Step. Step itself advances by its dtRequest argument, the window
	// within which Timed/Stochastic transitions are checked for
	// eligibility and Continuous transitions are integrated.
	StepSize float64

	// ImmediateIterationCap bounds how many immediate transitions may
	// fire within a single step's immediate-exhaustion phase, guarding
	// against a structurally cyclic immediate subnet that would
	// otherwise never settle.
	ImmediateIterationCap int

	// Seed drives every stochastic decision the controller makes: burst
	// and delay sampling in behavior.StochasticStrategy, and conflict-set
	// shuffling under the Random ConflictPolicy. Two controllers loaded
	// with the same net and the same Seed reproduce the same trajectory
	// for the same sequence of Step calls. A zero Seed is a valid seed,
	// not "unset" — it reproduces deterministically like any other seed.
	Seed uint64
}

// DefaultSettings returns reasonable defaults: priority-ordered conflict
// resolution, a unit step size, and a generous iteration cap.
func DefaultSettings() Settings {
	return Settings{
		ConflictPolicy:        Priority,
		StepSize:              1.0,
		ImmediateIterationCap: 10000,
	}
}
