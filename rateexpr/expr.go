package rateexpr

import (
	"fmt"
	"math"
	"strings"
)

// Expr is a compiled, reusable rate expression.
type Expr struct {
	src string
	ast Node
}

// Compile parses src into a reusable Expr. A parse error is the core's
// RateExpressionError; net.AddTransition runs Compile on the rate
// expression of every Stochastic and Continuous transition, so a
// malformed expression is rejected when the transition is added.
func Compile(src string) (*Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("rateexpr: empty expression")
	}
	ast, err := NewParser(src).Parse()
	if err != nil {
		return nil, err
	}
	return &Expr{src: src, ast: ast}, nil
}

// String returns the original expression text.
func (e *Expr) String() string {
	return e.src
}

// Validate checks that every place identifier the expression references
// names a place in placeIDs, and that "t"/"time" is the only other
// identifier form used. Its error is a RateExpressionError (unresolved
// identifier), distinct from the parse-time syntax errors Compile
// reports. net.AddTransition does not call Validate.
func (e *Expr) Validate(placeIDs map[string]bool) error {
	return validateIdents(e.ast, placeIDs)
}

func validateIdents(node Node, placeIDs map[string]bool) error {
	switch n := node.(type) {
	case *NumberLit:
		return nil
	case *Ident:
		if n.Name == "t" || n.Name == "time" {
			return nil
		}
		placeID, ok := strings.CutPrefix(n.Name, "P")
		if !ok || !placeIDs[placeID] {
			return fmt.Errorf("rateexpr: unresolved identifier %q", n.Name)
		}
		return nil
	case *UnaryOp:
		return validateIdents(n.Operand, placeIDs)
	case *BinaryOp:
		if err := validateIdents(n.Left, placeIDs); err != nil {
			return err
		}
		return validateIdents(n.Right, placeIDs)
	case *CallExpr:
		for _, a := range n.Args {
			if err := validateIdents(a, placeIDs); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("rateexpr: unknown node type %T", node)
	}
}

// Eval evaluates the expression against a marking and time. Unlike the raw
// package-level Eval, non-finite results (NaN, +/-Inf from division by zero
// or out-of-domain math calls) are clamped to 0 and reported as a warning
// string rather than propagated as an error — the spec's IntegrationWarning
// behavior for runtime rate-expression failures.
func (e *Expr) Eval(marking map[string]float64, t float64) (float64, string) {
	v, err := Eval(e.ast, &Context{Marking: marking, Time: t})
	if err != nil {
		return 0, fmt.Sprintf("rateexpr: %q failed: %v, clamped to 0", e.src, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Sprintf("rateexpr: %q produced non-finite result, clamped to 0", e.src)
	}
	return v, ""
}
