package net

// Builder provides a fluent API for constructing nets, generalized from a
// simple chained place/transition/arc builder to cover all four
// transition kinds and the special arc kinds.
//
// Example:
//
//	n, err := net.Build().
//	    Place("S", 999).
//	    Place("I", 1).
//	    Place("R", 0).
//	    Transition("infect").
//	    Transition("recover").
//	    Arc("S", "infect", 1).
//	    Arc("I", "infect", 1).
//	    Arc("infect", "I", 2).
//	    Arc("I", "recover", 1).
//	    Arc("recover", "R", 1).
//	    Done()
type Builder struct {
	net   *Net
	byTag map[string]string // builder-supplied tag -> generated ID
	err   error
	nextX float64
	placeY float64
	transY float64
}

// Build starts a new fluent net construction.
func Build() *Builder {
	return &Builder{
		net:    New(nil),
		byTag:  make(map[string]string),
		nextX:  100,
		placeY: 100,
		transY: 200,
	}
}

func (b *Builder) resolve(tag string) string {
	if id, ok := b.byTag[tag]; ok {
		return id
	}
	return tag
}

// Place adds an Immediate-compatible place with the given tag and initial
// token count. The tag is used to refer to the place from Arc/Flow/Chain.
func (b *Builder) Place(tag string, initial float64) *Builder {
	return b.PlaceWithCapacity(tag, initial, 0)
}

// PlaceWithCapacity adds a place with an explicit capacity bound.
func (b *Builder) PlaceWithCapacity(tag string, initial, capacity float64) *Builder {
	if b.err != nil {
		return b
	}
	p, err := b.net.AddPlace(PlaceConfig{Name: tag, Initial: initial, Capacity: capacity, X: b.nextX, Y: b.placeY})
	if err != nil {
		b.err = err
		return b
	}
	b.byTag[tag] = p.ID
	b.nextX += 100
	return b
}

// Transition adds an Immediate transition with the given tag.
func (b *Builder) Transition(tag string) *Builder {
	return b.TransitionOfType(tag, Immediate)
}

// TransitionOfType adds a transition of the given behavior type.
func (b *Builder) TransitionOfType(tag string, kind TransitionType) *Builder {
	if b.err != nil {
		return b
	}
	t, err := b.net.AddTransition(TransitionConfig{Name: tag, Type: kind, X: b.nextX, Y: b.transY})
	if err != nil {
		b.err = err
		return b
	}
	b.byTag[tag] = t.ID
	b.nextX += 100
	return b
}

// TimedTransition adds a Timed transition with an enabling window.
func (b *Builder) TimedTransition(tag string, earliest, latest float64) *Builder {
	if b.err != nil {
		return b
	}
	t, err := b.net.AddTransition(TransitionConfig{
		Name: tag, Type: Timed, EarliestFiring: earliest, LatestFiring: latest,
		X: b.nextX, Y: b.transY,
	})
	if err != nil {
		b.err = err
		return b
	}
	b.byTag[tag] = t.ID
	b.nextX += 100
	return b
}

// StochasticTransition adds a Stochastic transition with an exponential
// rate expression.
func (b *Builder) StochasticTransition(tag string, rateExpr string) *Builder {
	if b.err != nil {
		return b
	}
	t, err := b.net.AddTransition(TransitionConfig{Name: tag, Type: Stochastic, RateExpr: rateExpr, X: b.nextX, Y: b.transY})
	if err != nil {
		b.err = err
		return b
	}
	b.byTag[tag] = t.ID
	b.nextX += 100
	return b
}

// ContinuousTransition adds a Continuous transition with a flow-rate
// expression.
func (b *Builder) ContinuousTransition(tag string, rateExpr string) *Builder {
	if b.err != nil {
		return b
	}
	t, err := b.net.AddTransition(TransitionConfig{Name: tag, Type: Continuous, RateExpr: rateExpr, X: b.nextX, Y: b.transY})
	if err != nil {
		b.err = err
		return b
	}
	b.byTag[tag] = t.ID
	b.nextX += 100
	return b
}

// Arc adds a normal-weight arc between two previously tagged nodes.
func (b *Builder) Arc(source, target string, weight float64) *Builder {
	if b.err != nil {
		return b
	}
	_, err := b.net.AddArc(ArcConfig{Source: b.resolve(source), Target: b.resolve(target), Weight: weight, Kind: Normal})
	if err != nil {
		b.err = err
	}
	return b
}

// InhibitorArc adds an inhibitor arc from a place to a transition.
func (b *Builder) InhibitorArc(place, transition string, threshold float64) *Builder {
	if b.err != nil {
		return b
	}
	_, err := b.net.AddArc(ArcConfig{Source: b.resolve(place), Target: b.resolve(transition), Weight: threshold, Kind: Inhibitor})
	if err != nil {
		b.err = err
	}
	return b
}

// ReadArc adds a read (test) arc from a place to a transition: it checks
// availability without consuming.
func (b *Builder) ReadArc(place, transition string, weight float64) *Builder {
	if b.err != nil {
		return b
	}
	_, err := b.net.AddArc(ArcConfig{Source: b.resolve(place), Target: b.resolve(transition), Weight: weight, Kind: Read})
	if err != nil {
		b.err = err
	}
	return b
}

// ResetArc adds a reset arc from a transition to a place: on firing, the
// place is zeroed before any other output arcs to it are applied.
func (b *Builder) ResetArc(transition, place string) *Builder {
	if b.err != nil {
		return b
	}
	_, err := b.net.AddArc(ArcConfig{Source: b.resolve(transition), Target: b.resolve(place), Kind: Reset})
	if err != nil {
		b.err = err
	}
	return b
}

// Flow adds the common place -> transition -> place pattern in one call.
func (b *Builder) Flow(fromPlace, transition, toPlace string, weight float64) *Builder {
	return b.Arc(fromPlace, transition, weight).Arc(transition, toPlace, weight)
}

// Chain builds a sequential place/transition/place/... pipeline. elements
// must alternate place, transition, place, ... and have odd length.
func (b *Builder) Chain(initialTokens float64, elements ...string) *Builder {
	if b.err != nil {
		return b
	}
	if len(elements) < 3 || len(elements)%2 == 0 {
		return b
	}
	b.Place(elements[0], initialTokens)
	for i := 1; i < len(elements); i += 2 {
		trans := elements[i]
		nextPlace := elements[i+1]
		b.Transition(trans)
		b.Place(nextPlace, 0)
		b.Arc(elements[i-1], trans, 1)
		b.Arc(trans, nextPlace, 1)
	}
	return b
}

// Done returns the completed net, or the first structural error
// encountered during construction.
func (b *Builder) Done() (*Net, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.net, nil
}

// ID resolves a builder tag to its generated object ID, for tests and
// callers that need to address nodes after Done().
func (b *Builder) ID(tag string) string {
	return b.resolve(tag)
}
