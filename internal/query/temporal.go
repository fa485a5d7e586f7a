package query

import (
	"fmt"
	"time"

	"github.com/hyperjump/kizuna/internal/models"
)

// runTemporal filters scoped documents by a date-field predicate: within N
// days of a reference date, and/or before/after cutoffs.
func (e *Engine) runTemporal(spec *models.QuerySpec, docs []*models.Document) (*models.QueryResult, error) {
	if err := requireField(docs, spec.DateField, "date_field"); err != nil {
		return nil, err
	}

	var reference, before, after time.Time
	var err error
	if spec.WithinDays > 0 {
		if reference, err = parseParamDate(spec.ReferenceDate, "reference_date"); err != nil {
			return nil, err
		}
	}
	if spec.Before != "" {
		if before, err = parseParamDate(spec.Before, "before"); err != nil {
			return nil, err
		}
	}
	if spec.After != "" {
		if after, err = parseParamDate(spec.After, "after"); err != nil {
			return nil, err
		}
	}

	result := &models.QueryResult{
		Type:       models.QueryTemporal,
		Confidence: 1.0, // field filter only, no edges relied upon
	}
	for _, doc := range docs {
		fv, ok := doc.Field(spec.DateField)
		if !ok {
			continue
		}
		t, ok := models.ParseDate(fv.Value)
		if !ok {
			continue
		}
		if spec.WithinDays > 0 {
			diff := t.Sub(reference)
			if diff < 0 {
				diff = -diff
			}
			if diff > time.Duration(spec.WithinDays)*24*time.Hour {
				continue
			}
		}
		if spec.Before != "" && !t.Before(before) {
			continue
		}
		if spec.After != "" && !t.After(after) {
			continue
		}
		result.DocumentIDs = append(result.DocumentIDs, doc.ID)
		result.SourceDocuments = append(result.SourceDocuments, doc.ID)
	}
	return result, nil
}

func parseParamDate(value, param string) (time.Time, error) {
	t, ok := models.ParseDate(value)
	if !ok {
		return time.Time{}, fmt.Errorf("%s %q is not a parseable date", param, value)
	}
	return t, nil
}
