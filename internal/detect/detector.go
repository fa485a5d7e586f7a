// Package detect provides evidence detectors for document pairs.
//
// Each detector is a pure function over a pair of documents: it never mutates
// its inputs and holds no shared mutable state, so all detectors may run
// concurrently across all pairs of a batch.
package detect

import (
	"context"

	"github.com/hyperjump/kizuna/internal/config"
	"github.com/hyperjump/kizuna/internal/models"
	"github.com/hyperjump/kizuna/internal/refindex"
	"go.uber.org/zap"
)

// Detector inspects a document pair and produces zero or more evidence signals.
type Detector interface {
	// Detect returns evidence about the pair, in canonical order.
	Detect(ctx context.Context, a, b *models.Document) []models.Evidence
	// Name returns the detector name for logging.
	Name() string
}

// DefaultDetectors composes the standard detector list. The semantic detector
// is included only when scorer is non-nil; refIdx may be nil, in which case
// the reference detector scans text directly. Adding a detector means
// implementing the interface and appending it here (or passing a custom list
// to the relate.Runner).
func DefaultDetectors(cfg *config.DetectConfig, refIdx *refindex.Index, scorer Scorer, logger *zap.Logger) []Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	detectors := []Detector{
		NewFilenameDetector(cfg),
		NewReferenceDetector(cfg, refIdx),
		NewEntityDetector(cfg),
		NewTemporalDetector(cfg),
	}
	if scorer != nil {
		detectors = append(detectors, NewSemanticDetector(scorer, logger))
	}
	return detectors
}
