package query

import (
	"sort"

	"github.com/hyperjump/kizuna/internal/models"
)

// runAggregation groups scoped documents by an extracted field and sums or
// counts a numeric field. Contributing document ids are listed per group for
// auditability.
func (e *Engine) runAggregation(spec *models.QuerySpec, docs []*models.Document) (*models.QueryResult, error) {
	if err := requireField(docs, spec.GroupBy, "group_by"); err != nil {
		return nil, err
	}
	if spec.SumField != "" {
		if err := requireField(docs, spec.SumField, "sum_field"); err != nil {
			return nil, err
		}
	}

	groups := make(map[string]*models.AggregationGroup)
	var keys []string
	var sources []string
	for _, doc := range docs {
		fv, ok := doc.Field(spec.GroupBy)
		if !ok {
			continue
		}
		group, exists := groups[fv.Value]
		if !exists {
			group = &models.AggregationGroup{Key: fv.Value}
			groups[fv.Value] = group
			keys = append(keys, fv.Value)
		}
		group.Count++
		group.DocumentIDs = append(group.DocumentIDs, doc.ID)
		sources = append(sources, doc.ID)
		if spec.SumField != "" {
			if v, ok := doc.NumericField(spec.SumField); ok {
				group.Sum += v
			}
		}
	}
	sort.Strings(keys)

	result := &models.QueryResult{
		Type:            models.QueryAggregation,
		SourceDocuments: sources,
		Confidence:      1.0, // aggregation reads fields only, no edges relied upon
	}
	for _, key := range keys {
		result.Groups = append(result.Groups, *groups[key])
	}
	return result, nil
}
