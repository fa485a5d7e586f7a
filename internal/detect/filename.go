package detect

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hyperjump/kizuna/internal/config"
	"github.com/hyperjump/kizuna/internal/models"
)

const filenameConfidence = 0.9

// FilenameDetector finds pairs whose filenames follow known correlation
// patterns: a shared numeric token under paired prefixes (INV-001 / PO-001),
// or identical names up to a trailing version or part marker.
type FilenameDetector struct {
	config *config.DetectConfig
}

// NewFilenameDetector creates a FilenameDetector with the given config.
func NewFilenameDetector(cfg *config.DetectConfig) *FilenameDetector {
	return &FilenameDetector{config: cfg}
}

// Name returns the detector name.
func (d *FilenameDetector) Name() string {
	return string(models.MethodFilenamePattern)
}

// Detect emits evidence for filename pattern matches between a and b.
func (d *FilenameDetector) Detect(_ context.Context, a, b *models.Document) []models.Evidence {
	tokensA := FilenameTokens(a.Filename)
	tokensB := FilenameTokens(b.Filename)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return nil
	}

	var out []models.Evidence
	if ev, ok := d.matchPairedPrefix(a, b, tokensA, tokensB); ok {
		out = append(out, ev)
	}
	if ev, ok := d.matchTrailingMarker(a, b, tokensA, tokensB); ok {
		out = append(out, ev)
	}
	for i := range out {
		out[i].Canonicalize()
	}
	return out
}

// matchPairedPrefix checks for a shared numeric token whose alphabetic
// prefixes form a known pair (e.g. INV/PO).
func (d *FilenameDetector) matchPairedPrefix(a, b *models.Document, tokensA, tokensB []string) (models.Evidence, bool) {
	numericB := make(map[string]bool)
	for _, t := range tokensB {
		if isNumeric(t) {
			numericB[t] = true
		}
	}
	var shared string
	for _, t := range tokensA {
		if isNumeric(t) && numericB[t] {
			shared = t
			break
		}
	}
	if shared == "" {
		return models.Evidence{}, false
	}

	for _, pa := range alphaTokens(tokensA) {
		for _, pb := range alphaTokens(tokensB) {
			relType, ok := d.pairedType(pa, pb)
			if !ok {
				continue
			}
			return models.Evidence{
				SourceID:   a.ID,
				TargetID:   b.ID,
				Method:     models.MethodFilenamePattern,
				Confidence: filenameConfidence,
				Detail:     fmt.Sprintf("filenames %q and %q share number %s under paired prefixes %s/%s", a.Filename, b.Filename, shared, pa, pb),
				Type:       relType,
			}, true
		}
	}
	return models.Evidence{}, false
}

// matchTrailingMarker checks for token lists identical except a trailing
// version or part number.
func (d *FilenameDetector) matchTrailingMarker(a, b *models.Document, tokensA, tokensB []string) (models.Evidence, bool) {
	if len(tokensA) != len(tokensB) || len(tokensA) < 3 {
		return models.Evidence{}, false
	}
	n := len(tokensA)
	for i := 0; i < n-1; i++ {
		if tokensA[i] != tokensB[i] {
			return models.Evidence{}, false
		}
	}
	last := n - 1
	if !isNumeric(tokensA[last]) || !isNumeric(tokensB[last]) || tokensA[last] == tokensB[last] {
		return models.Evidence{}, false
	}

	var relType models.RelationshipType
	switch tokensA[last-1] {
	case "v", "ver", "version", "rev":
		relType = models.RelationVersionedCopy
	case "part", "pt":
		relType = models.RelationMultiPart
	default:
		return models.Evidence{}, false
	}
	return models.Evidence{
		SourceID:   a.ID,
		TargetID:   b.ID,
		Method:     models.MethodFilenamePattern,
		Confidence: filenameConfidence,
		Detail:     fmt.Sprintf("filenames %q and %q differ only by trailing %s marker", a.Filename, b.Filename, tokensA[last-1]),
		Type:       relType,
	}, true
}

// pairedType looks up two alphabetic prefixes in the configured pair table.
func (d *FilenameDetector) pairedType(pa, pb string) (models.RelationshipType, bool) {
	for _, pair := range d.config.PrefixPairs {
		if (pa == pair.A && pb == pair.B) || (pa == pair.B && pb == pair.A) {
			relType := models.RelationshipType(pair.Type)
			if relType == "" {
				relType = models.RelationRelated
			}
			return relType, true
		}
	}
	return "", false
}

// FilenameTokens normalizes a filename for pattern matching: the extension is
// stripped, everything is lowercased, and the rest is split on runs of
// non-alphanumeric characters and on letter/digit boundaries, so both
// "INV-001.pdf" and "INV001.pdf" yield [inv 001].
func FilenameTokens(filename string) []string {
	base := strings.ToLower(strings.TrimSuffix(filename, filepath.Ext(filename)))
	var tokens []string
	var cur strings.Builder
	var curDigit bool
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range base {
		isDigit := r >= '0' && r <= '9'
		isAlpha := r >= 'a' && r <= 'z'
		if !isDigit && !isAlpha {
			flush()
			continue
		}
		if cur.Len() > 0 && isDigit != curDigit {
			flush()
		}
		cur.WriteRune(r)
		curDigit = isDigit
	}
	flush()
	return tokens
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func alphaTokens(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		if !isNumeric(t) {
			out = append(out, t)
		}
	}
	return out
}
