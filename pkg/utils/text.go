package utils

import "strings"

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// NormalizeEntity lowercases s and collapses runs of non-alphanumeric
// characters to single spaces, so "ACME, Corp." and "acme corp" compare equal.
func NormalizeEntity(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if alnum {
			b.WriteRune(r)
			lastSpace = false
		} else if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokens splits s into normalized tokens.
func Tokens(s string) []string {
	normalized := NormalizeEntity(s)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// TokenOverlap returns the fraction of the shorter token list's distinct
// tokens that also appear in the other list. Returns 0 when either is empty.
func TokenOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[t] = true
	}
	setB := make(map[string]bool, len(b))
	for _, t := range b {
		setB[t] = true
	}
	shorter, longer := setA, setB
	if len(setB) < len(setA) {
		shorter, longer = setB, setA
	}
	shared := 0
	for t := range shorter {
		if longer[t] {
			shared++
		}
	}
	return float64(shared) / float64(len(shorter))
}
