package detect

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperjump/kizuna/internal/config"
	"github.com/hyperjump/kizuna/internal/models"
	"github.com/hyperjump/kizuna/internal/refindex"
	"github.com/hyperjump/kizuna/pkg/utils"
)

const (
	referenceConfidence = 0.95
	// contextRadius is how much surrounding text goes into the detail string.
	contextRadius = 40
	// minIdentifierLen guards against matching trivially short identifiers.
	minIdentifierLen = 3
)

// ReferenceDetector finds explicit references: one document's text containing
// another document's identifying number (invoice number, PO number, etc.).
// When an index is available it is consulted first so that large texts are
// only substring-scanned for plausible candidates.
type ReferenceDetector struct {
	config *config.DetectConfig
	index  *refindex.Index
}

// NewReferenceDetector creates a ReferenceDetector. index may be nil.
func NewReferenceDetector(cfg *config.DetectConfig, index *refindex.Index) *ReferenceDetector {
	return &ReferenceDetector{config: cfg, index: index}
}

// Name returns the detector name.
func (d *ReferenceDetector) Name() string {
	return string(models.MethodExplicitReference)
}

// Detect scans each document's text for the other's identifiers.
func (d *ReferenceDetector) Detect(ctx context.Context, a, b *models.Document) []models.Evidence {
	var out []models.Evidence
	out = append(out, d.scan(ctx, a, b)...)
	out = append(out, d.scan(ctx, b, a)...)
	for i := range out {
		out[i].Canonicalize()
	}
	return out
}

// scan looks for owner's identifiers inside reader's text.
func (d *ReferenceDetector) scan(ctx context.Context, owner, reader *models.Document) []models.Evidence {
	if reader.Text == "" {
		return nil
	}
	var out []models.Evidence
	lowerText := strings.ToLower(reader.Text)
	for _, field := range d.config.ReferenceFields {
		fv, ok := owner.Field(field)
		if !ok {
			continue
		}
		token := strings.TrimSpace(fv.Value)
		if len(token) < minIdentifierLen {
			continue
		}
		if d.index != nil {
			candidates, err := d.index.DocsContaining(ctx, token)
			if err == nil && !candidates[reader.ID] {
				continue
			}
		}
		pos := strings.Index(lowerText, strings.ToLower(token))
		if pos < 0 {
			continue
		}
		out = append(out, models.Evidence{
			SourceID:   owner.ID,
			TargetID:   reader.ID,
			Method:     models.MethodExplicitReference,
			Confidence: referenceConfidence,
			Detail:     fmt.Sprintf("%s %q referenced: %s", field, token, surrounding(reader.Text, pos, len(token))),
			Type:       models.RelationReferences,
		})
	}
	return out
}

// surrounding extracts the matched token with up to contextRadius characters
// of context on each side.
func surrounding(text string, pos, length int) string {
	start := pos - contextRadius
	if start < 0 {
		start = 0
	}
	end := pos + length + contextRadius
	if end > len(text) {
		end = len(text)
	}
	return utils.Truncate(strings.TrimSpace(text[start:end]), 2*contextRadius+length)
}
