package models

// DetectionMethod identifies which detector produced a piece of evidence.
type DetectionMethod string

const (
	MethodFilenamePattern     DetectionMethod = "filename_pattern"
	MethodExplicitReference   DetectionMethod = "explicit_reference"
	MethodEntityMatch         DetectionMethod = "entity_match"
	MethodTemporalCorrelation DetectionMethod = "temporal_correlation"
	MethodSemantic            DetectionMethod = "semantic"
)

// Evidence is one detector's weighted, justified finding about a document pair.
// SourceID/TargetID are stored in canonical order (smaller id first) so a pair
// has exactly one key regardless of which direction a detector scanned.
type Evidence struct {
	SourceID   string           `json:"source_id"`
	TargetID   string           `json:"target_id"`
	Method     DetectionMethod  `json:"method"`
	Confidence float64          `json:"confidence"`
	Detail     string           `json:"detail"`
	Type       RelationshipType `json:"type,omitempty"`
}

// CanonicalPair orders two document ids lexicographically.
func CanonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// PairKey returns the canonical key for a document pair.
func PairKey(a, b string) string {
	a, b = CanonicalPair(a, b)
	return a + "\x00" + b
}

// Canonicalize swaps SourceID and TargetID into canonical order.
func (e *Evidence) Canonicalize() {
	e.SourceID, e.TargetID = CanonicalPair(e.SourceID, e.TargetID)
}

// PairKey returns the canonical key for the evidence's pair.
func (e *Evidence) PairKey() string {
	return PairKey(e.SourceID, e.TargetID)
}
