package utils

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "shorter than max", input: "hello", maxLen: 10, want: "hello"},
		{name: "exact length", input: "hello", maxLen: 5, want: "hello"},
		{name: "truncated", input: "hello world", maxLen: 5, want: "hello..."},
		{name: "zero maxLen", input: "hello", maxLen: 0, want: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestNormalizeEntity(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "punctuation collapsed", input: "ACME, Corp.", want: "acme corp"},
		{name: "already normal", input: "acme corp", want: "acme corp"},
		{name: "mixed separators", input: "Acme--Corp / Ltd", want: "acme corp ltd"},
		{name: "digits kept", input: "DE-123 456 789", want: "de 123 456 789"},
		{name: "empty", input: "", want: ""},
		{name: "only punctuation", input: "---", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeEntity(tt.input); got != tt.want {
				t.Errorf("NormalizeEntity(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenOverlap(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want float64
	}{
		{name: "identical", a: []string{"acme", "corp"}, b: []string{"acme", "corp"}, want: 1.0},
		{name: "shorter fully contained", a: []string{"acme"}, b: []string{"acme", "corp", "ltd"}, want: 1.0},
		{name: "half of shorter", a: []string{"acme", "gmbh"}, b: []string{"acme", "corp", "ltd"}, want: 0.5},
		{name: "disjoint", a: []string{"acme"}, b: []string{"beta"}, want: 0},
		{name: "empty a", a: nil, b: []string{"acme"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokenOverlap(tt.a, tt.b); got != tt.want {
				t.Errorf("TokenOverlap(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("Acme, Corp. Ltd")
	want := []string{"acme", "corp", "ltd"}
	if len(got) != len(want) {
		t.Fatalf("Tokens() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tokens()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
