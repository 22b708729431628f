package similarity

import (
	"testing"
)

func TestScoreIdentical(t *testing.T) {
	if got := Score("lodash", "lodash"); got != 1.0 {
		t.Errorf("Score(lodash, lodash) = %v, want 1.0", got)
	}
}

func TestScoreEmpty(t *testing.T) {
	if got := Score("", ""); got != 1.0 {
		t.Errorf("Score(\"\", \"\") = %v, want 1.0", got)
	}
	if got := Score("", "abc"); got != 0 {
		t.Errorf("Score(\"\", abc) = %v, want 0", got)
	}
}

func TestScoreTypo(t *testing.T) {
	// One insertion over a 7-rune string: 6/7.
	if got := Score("loadash", "lodash"); got <= Threshold {
		t.Errorf("Score(loadash, lodash) = %v, want > %v", got, Threshold)
	}
	if !Similar("expres", "express") {
		t.Error("Similar(expres, express) = false, want true")
	}
	if Similar("react", "lodash") {
		t.Error("Similar(react, lodash) = true, want false")
	}
}

func TestScoreSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"loadash", "lodash"},
		{"kitten", "sitting"},
		{"", "x"},
		{"@types/node", "@types/nod"},
		{"日本語", "日本"},
	}
	for _, p := range pairs {
		if Score(p[0], p[1]) != Score(p[1], p[0]) {
			t.Errorf("Score(%q, %q) != Score(%q, %q)", p[0], p[1], p[1], p[0])
		}
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"lodash", "lodash", 0},
		{"日本語", "日本", 1},
	}
	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
