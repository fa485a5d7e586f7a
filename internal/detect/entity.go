package detect

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperjump/kizuna/internal/config"
	"github.com/hyperjump/kizuna/internal/models"
	"github.com/hyperjump/kizuna/pkg/utils"
)

const (
	// entityCap bounds what entity matching alone can claim.
	entityCap = 0.8
	// strongMatchConfidence is the weight of a shared tax id or exact amount.
	strongMatchConfidence = 0.8
	nameMatchMin          = 0.3
	nameMatchMax          = 0.5
)

// EntityDetector compares normalized entity fields (names, tax ids, amounts)
// across two documents' extracted fields. Multiple shared entities combine
// noisy-OR, clamped at the method cap.
type EntityDetector struct {
	config *config.DetectConfig
}

// NewEntityDetector creates an EntityDetector with the given config.
func NewEntityDetector(cfg *config.DetectConfig) *EntityDetector {
	return &EntityDetector{config: cfg}
}

// Name returns the detector name.
func (d *EntityDetector) Name() string {
	return string(models.MethodEntityMatch)
}

// Detect emits at most one evidence item summarizing all shared entities.
func (d *EntityDetector) Detect(_ context.Context, a, b *models.Document) []models.Evidence {
	var confidences []float64
	var shared []string

	for _, field := range d.config.StrongFields {
		fa, okA := a.Field(field)
		fb, okB := b.Field(field)
		if !okA || !okB {
			continue
		}
		if utils.NormalizeEntity(fa.Value) != "" && utils.NormalizeEntity(fa.Value) == utils.NormalizeEntity(fb.Value) {
			confidences = append(confidences, strongMatchConfidence)
			shared = append(shared, fmt.Sprintf("%s=%s", field, fa.Value))
		}
	}

	for _, field := range d.config.AmountFields {
		va, okA := a.NumericField(field)
		vb, okB := b.NumericField(field)
		if okA && okB && va == vb {
			confidences = append(confidences, strongMatchConfidence)
			shared = append(shared, fmt.Sprintf("%s=%.2f", field, va))
		}
	}

	for _, field := range d.config.NameFields {
		fa, okA := a.Field(field)
		fb, okB := b.Field(field)
		if !okA || !okB {
			continue
		}
		overlap := utils.TokenOverlap(utils.Tokens(fa.Value), utils.Tokens(fb.Value))
		if overlap < d.config.NameOverlapThreshold {
			continue
		}
		confidences = append(confidences, nameConfidence(overlap, d.config.NameOverlapThreshold))
		shared = append(shared, fmt.Sprintf("%s~%s", field, fa.Value))
	}

	if len(confidences) == 0 {
		return nil
	}

	// Noisy-OR across shared entities, clamped at the method cap so entity
	// matching alone never outweighs an explicit reference.
	combined := 1.0
	for _, c := range confidences {
		combined *= 1 - c
	}
	confidence := 1 - combined
	if confidence > entityCap {
		confidence = entityCap
	}

	ev := models.Evidence{
		SourceID:   a.ID,
		TargetID:   b.ID,
		Method:     models.MethodEntityMatch,
		Confidence: confidence,
		Detail:     "shared entities: " + strings.Join(shared, ", "),
		Type:       models.RelationSharedEntities,
	}
	ev.Canonicalize()
	return []models.Evidence{ev}
}

// nameConfidence maps a token overlap in [threshold,1] linearly onto
// [nameMatchMin,nameMatchMax].
func nameConfidence(overlap, threshold float64) float64 {
	if threshold >= 1 {
		return nameMatchMax
	}
	scaled := (overlap - threshold) / (1 - threshold)
	return nameMatchMin + utils.Clamp01(scaled)*(nameMatchMax-nameMatchMin)
}
