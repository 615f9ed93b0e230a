package rateexpr

import "testing"

func TestCompileAndEval(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		marking map[string]float64
		time    float64
		want    float64
	}{
		{"constant", "2.5", nil, 0, 2.5},
		{"place ref", "P1 * 2", map[string]float64{"1": 3}, 0, 6},
		{"time ref", "t + 1", nil, 4, 5},
		{"precedence", "2 + 3 * 4", nil, 0, 14},
		{"power right assoc", "2 ^ 3 ^ 2", nil, 0, 512}, // 2^(3^2)
		{"min max", "min(P1, P2) + max(P1, P2)", map[string]float64{"1": 3, "2": 7}, 0, 10},
		{"abs unary", "abs(-P1)", map[string]float64{"1": 5}, 0, 5},
		{"division", "P1 / P2", map[string]float64{"1": 10, "2": 4}, 0, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.expr, err)
			}
			got, warn := e.Eval(tt.marking, tt.time)
			if warn != "" {
				t.Fatalf("unexpected warning: %s", warn)
			}
			if got != tt.want {
				t.Errorf("Eval(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestCompileParseErrors(t *testing.T) {
	bad := []string{"", "1 +", "(1", "foo(", "1 2", "unknownfunc(1)"}
	for _, expr := range bad {
		if _, err := Compile(expr); err == nil {
			t.Errorf("Compile(%q) expected parse error, got nil", expr)
		}
	}
}

func TestDivisionByZeroClampsToZero(t *testing.T) {
	e, err := Compile("P1 / P2")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	got, warn := e.Eval(map[string]float64{"1": 1, "2": 0}, 0)
	if got != 0 {
		t.Errorf("expected clamp to 0, got %v", got)
	}
	if warn == "" {
		t.Error("expected a non-finite warning")
	}
}

func TestValidateRejectsUnknownPlace(t *testing.T) {
	e, err := Compile("P99 + 1")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if err := e.Validate(map[string]bool{"1": true}); err == nil {
		t.Error("expected unresolved identifier error for P99")
	}
	if err := e.Validate(map[string]bool{"99": true}); err != nil {
		t.Errorf("expected P99 to validate, got %v", err)
	}
}

func TestValidateAcceptsTime(t *testing.T) {
	e, err := Compile("t * 2 + time")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if err := e.Validate(map[string]bool{}); err != nil {
		t.Errorf("expected t/time to validate with no places, got %v", err)
	}
}
