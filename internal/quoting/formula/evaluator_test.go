package formula

import (
	"math"
	"testing"
)

func TestEvaluateArithmetic(t *testing.T) {
	vars := map[string]float64{"width": 36, "height": 96}

	tests := []struct {
		name    string
		formula string
		want    float64
	}{
		{"blank", "", 0},
		{"whitespace only", "   ", 0},
		{"literal", "42", 42},
		{"subtraction", "height - 2", 94},
		{"precedence", "2 + 3 * 4", 14},
		{"parens", "(2 + 3) * 4", 20},
		{"division", "height / 2", 48},
		{"modulo", "height % 7", 5},
		{"perimeter", "(width * 2) + (height * 2)", 264},
		{"case insensitive", "Height - 2", 94},
		{"upper case", "WIDTH + HEIGHT", 132},
		{"negative clamped", "width - 100", 0},
		{"unary minus clamped", "-5", 0},
		{"unary minus computes", "-5 + 10", 5},
		{"decimal literals", "height - 2.5", 93.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.formula, vars)
			if err != nil {
				t.Fatalf("Evaluate(%q) error: %v", tt.formula, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Evaluate(%q) = %v, want %v", tt.formula, got, tt.want)
			}
		})
	}
}

func TestEvaluateRejectsInvalidInput(t *testing.T) {
	vars := map[string]float64{"width": 36, "height": 96}

	tests := []struct {
		name    string
		formula string
	}{
		{"unknown variable", "depth * 2"},
		{"partial identifier no match", "widthx + 1"},
		{"invalid character", "width + 2; exit"},
		{"disallowed operator", "width ** 2"},
		{"unbalanced parens", "(width + 2"},
		{"trailing operator", "width +"},
		{"division by zero", "width / 0"},
		{"exponent syntax", "width ^ 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.formula, vars)
			if err == nil {
				t.Fatalf("Evaluate(%q) expected error, got %v", tt.formula, got)
			}
			if got != 0 {
				t.Fatalf("Evaluate(%q) on error = %v, want 0", tt.formula, got)
			}
		})
	}
}

func TestEvaluateNeverNegative(t *testing.T) {
	formulas := []string{"", "width - height", "-1 * height", "0 - 0.5"}
	vars := map[string]float64{"width": 10, "height": 50}
	for _, f := range formulas {
		got, _ := Evaluate(f, vars)
		if got < 0 {
			t.Fatalf("Evaluate(%q) = %v, want >= 0", f, got)
		}
	}
}

func TestEvaluateIsPure(t *testing.T) {
	vars := map[string]float64{"width": 36, "height": 96}
	first, err := Evaluate("(width * 2) % height", vars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Evaluate("(width * 2) % height", vars)
		if err != nil || again != first {
			t.Fatalf("evaluation not stable: run %d got %v (%v), first %v", i, again, err, first)
		}
	}
	if vars["width"] != 36 || vars["height"] != 96 {
		t.Fatalf("variable map mutated: %v", vars)
	}
}
