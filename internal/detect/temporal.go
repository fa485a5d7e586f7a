package detect

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperjump/kizuna/internal/config"
	"github.com/hyperjump/kizuna/internal/models"
)

// TemporalDetector correlates documents by their primary dates: confidence
// decays linearly from 1.0 (same day) to 0.0 at the window edge. Documents
// without a parseable date yield no evidence.
type TemporalDetector struct {
	config *config.DetectConfig
}

// NewTemporalDetector creates a TemporalDetector with the given config.
func NewTemporalDetector(cfg *config.DetectConfig) *TemporalDetector {
	return &TemporalDetector{config: cfg}
}

// Name returns the detector name.
func (d *TemporalDetector) Name() string {
	return string(models.MethodTemporalCorrelation)
}

// Detect compares the two documents' primary dates.
func (d *TemporalDetector) Detect(_ context.Context, a, b *models.Document) []models.Evidence {
	if a.Date == nil || b.Date == nil {
		return nil
	}
	window := float64(d.config.TemporalWindowDays)
	if window <= 0 {
		return nil
	}
	diff := a.Date.Sub(*b.Date)
	if diff < 0 {
		diff = -diff
	}
	days := diff.Hours() / 24
	if days > window {
		return nil
	}
	ev := models.Evidence{
		SourceID:   a.ID,
		TargetID:   b.ID,
		Method:     models.MethodTemporalCorrelation,
		Confidence: 1 - days/window,
		Detail: fmt.Sprintf("dated %.0f days apart (%s vs %s)",
			days, a.Date.Format(time.DateOnly), b.Date.Format(time.DateOnly)),
		Type: models.RelationTemporal,
	}
	ev.Canonicalize()
	return []models.Evidence{ev}
}
