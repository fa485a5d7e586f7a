package query

import (
	"math"

	"github.com/hyperjump/kizuna/internal/models"
)

// runValidation evaluates the declared consistency rule across each
// relationship's two endpoints, e.g. invoice total <= purchase order total.
// Each check reports both values so failures can be audited.
func (e *Engine) runValidation(spec *models.QuerySpec, docs []*models.Document) (*models.QueryResult, error) {
	rule := spec.Rule
	if err := requireField(docs, rule.SourceField, "rule.source_field"); err != nil {
		return nil, err
	}
	if err := requireField(docs, rule.TargetField, "rule.target_field"); err != nil {
		return nil, err
	}

	inScope := make(map[string]bool, len(docs))
	for _, doc := range docs {
		inScope[doc.ID] = true
	}

	var tracker confidenceTracker
	result := &models.QueryResult{Type: models.QueryValidation}
	seen := make(map[string]bool)

	for _, edge := range e.graph.Edges() {
		if !inScope[edge.SourceID] || !inScope[edge.TargetID] {
			continue
		}
		if spec.RelationType != "" && edge.Type != spec.RelationType {
			continue
		}
		src, _ := e.graph.Document(edge.SourceID)
		dst, _ := e.graph.Document(edge.TargetID)

		check, ok := evaluateRule(rule, src, dst)
		if !ok {
			// Try the opposite orientation; canonical edge order says
			// nothing about which endpoint carries which field.
			check, ok = evaluateRule(rule, dst, src)
		}
		if !ok {
			continue
		}
		result.Checks = append(result.Checks, check)
		tracker.observe(edge.Confidence)
		for _, id := range []string{check.SourceID, check.TargetID} {
			if !seen[id] {
				seen[id] = true
				result.SourceDocuments = append(result.SourceDocuments, id)
			}
		}
	}

	result.Confidence = tracker.value()
	return result, nil
}

// evaluateRule applies the rule with src carrying the source field and dst
// the target field; ok is false when either value is missing or unparseable.
func evaluateRule(rule *models.ValidationRule, src, dst *models.Document) (models.ValidationCheck, bool) {
	sv, okS := src.NumericField(rule.SourceField)
	tv, okT := dst.NumericField(rule.TargetField)
	if !okS || !okT {
		return models.ValidationCheck{}, false
	}
	var passed bool
	switch rule.Op {
	case "lte":
		passed = sv <= tv+rule.Tolerance
	case "gte":
		passed = sv >= tv-rule.Tolerance
	case "eq":
		passed = math.Abs(sv-tv) <= rule.Tolerance
	}
	return models.ValidationCheck{
		SourceID:    src.ID,
		TargetID:    dst.ID,
		SourceValue: sv,
		TargetValue: tv,
		Passed:      passed,
	}, true
}
