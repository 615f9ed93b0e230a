package rateexpr

import (
	"fmt"
	"math"
	"strings"
)

// Context supplies the two free variables a rate expression may reference:
// the current marking (place ID, without the "P" prefix, to token count)
// and the current simulation time.
type Context struct {
	Marking map[string]float64
	Time    float64
}

// Eval evaluates node against ctx. Division by zero returns a non-finite
// result (±Inf or NaN) with a nil error; Expr.Eval wraps this and clamps
// non-finite results to zero with a warning.
func Eval(node Node, ctx *Context) (float64, error) {
	switch n := node.(type) {
	case *NumberLit:
		return n.Value, nil

	case *Ident:
		if n.Name == "t" || n.Name == "time" {
			return ctx.Time, nil
		}
		if placeID, ok := strings.CutPrefix(n.Name, "P"); ok {
			return ctx.Marking[placeID], nil
		}
		return 0, fmt.Errorf("rateexpr: unresolved identifier %q", n.Name)

	case *UnaryOp:
		v, err := Eval(n.Operand, ctx)
		if err != nil {
			return 0, err
		}
		return -v, nil

	case *BinaryOp:
		left, err := Eval(n.Left, ctx)
		if err != nil {
			return 0, err
		}
		right, err := Eval(n.Right, ctx)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case '+':
			return left + right, nil
		case '-':
			return left - right, nil
		case '*':
			return left * right, nil
		case '/':
			return left / right, nil
		case '^':
			return math.Pow(left, right), nil
		default:
			return 0, fmt.Errorf("rateexpr: unknown operator %q", n.Op)
		}

	case *CallExpr:
		args := make([]float64, len(n.Args))
		for i, a := range n.Args {
			v, err := Eval(a, ctx)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		return evalCall(n.Func, args)

	default:
		return 0, fmt.Errorf("rateexpr: unknown node type %T", node)
	}
}

func evalCall(name string, args []float64) (float64, error) {
	switch name {
	case "min":
		return math.Min(args[0], args[1]), nil
	case "max":
		return math.Max(args[0], args[1]), nil
	case "abs":
		return math.Abs(args[0]), nil
	case "exp":
		return math.Exp(args[0]), nil
	case "log":
		return math.Log(args[0]), nil
	case "sin":
		return math.Sin(args[0]), nil
	case "cos":
		return math.Cos(args[0]), nil
	default:
		return 0, fmt.Errorf("rateexpr: unknown function %q", name)
	}
}
