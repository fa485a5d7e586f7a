// Package relate fuses per-pair evidence into relationships and runs the
// concurrent detection pass over a batch's document pairs.
package relate

import (
	"sort"

	"github.com/hyperjump/kizuna/internal/config"
	"github.com/hyperjump/kizuna/internal/models"
)

// Aggregator combines evidence for document pairs into relationship records.
type Aggregator struct {
	config *config.DetectConfig
}

// NewAggregator creates an Aggregator with the given config.
func NewAggregator(cfg *config.DetectConfig) *Aggregator {
	return &Aggregator{config: cfg}
}

// CombineNoisyOR combines independent confidences: 1 - prod(1 - c_i).
// Adding evidence never decreases the result, and it approaches 1.0 under
// corroboration without exceeding it.
func CombineNoisyOR(confidences []float64) float64 {
	remainder := 1.0
	for _, c := range confidences {
		if c < 0 {
			c = 0
		}
		if c > 1 {
			c = 1
		}
		remainder *= 1 - c
	}
	return 1 - remainder
}

// Aggregate groups evidence by canonical pair and produces at most one
// relationship per pair. Evidence at or below the floor is pruned first;
// pairs whose combined confidence falls below the acceptance threshold emit
// no relationship. Results are sorted by pair key for determinism.
func (a *Aggregator) Aggregate(evidence []models.Evidence) []*models.Relationship {
	groups := make(map[string][]models.Evidence)
	var order []string
	for _, ev := range evidence {
		ev.Canonicalize()
		if ev.Confidence <= a.config.EvidenceFloor {
			continue
		}
		key := ev.PairKey()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], ev)
	}
	sort.Strings(order)

	var out []*models.Relationship
	for _, key := range order {
		if rel := a.AggregatePair(groups[key]); rel != nil {
			out = append(out, rel)
		}
	}
	return out
}

// AggregatePair fuses the evidence of a single canonical pair. All evidence
// must refer to the same pair. Returns nil when the pair does not clear the
// acceptance threshold.
func (a *Aggregator) AggregatePair(evidence []models.Evidence) *models.Relationship {
	if len(evidence) == 0 {
		return nil
	}
	confidences := make([]float64, 0, len(evidence))
	for _, ev := range evidence {
		confidences = append(confidences, ev.Confidence)
	}
	combined := CombineNoisyOR(confidences)
	if combined < a.config.AcceptThreshold {
		return nil
	}

	rel := &models.Relationship{
		SourceID:   evidence[0].SourceID,
		TargetID:   evidence[0].TargetID,
		Type:       electType(evidence),
		Confidence: combined,
		Evidence:   evidence,
	}
	seen := make(map[models.DetectionMethod]bool)
	for _, ev := range evidence {
		if !seen[ev.Method] {
			seen[ev.Method] = true
			rel.Methods = append(rel.Methods, ev.Method)
		}
	}
	return rel
}

// electType picks the relationship type of the single highest-confidence
// evidence item. When distinct types tie at the top confidence, the label
// falls back to "related"; all contributing methods stay recorded.
func electType(evidence []models.Evidence) models.RelationshipType {
	best := evidence[0]
	tiedTypes := map[models.RelationshipType]bool{typeOf(best): true}
	for _, ev := range evidence[1:] {
		switch {
		case ev.Confidence > best.Confidence:
			best = ev
			tiedTypes = map[models.RelationshipType]bool{typeOf(ev): true}
		case ev.Confidence == best.Confidence:
			tiedTypes[typeOf(ev)] = true
		}
	}
	if len(tiedTypes) > 1 {
		return models.RelationRelated
	}
	return typeOf(best)
}

func typeOf(ev models.Evidence) models.RelationshipType {
	if ev.Type == "" {
		return models.RelationRelated
	}
	return ev.Type
}
