package query

import (
	"github.com/hyperjump/kizuna/internal/models"
)

// runMatching reports, for each document matching the role predicate, whether
// an edge of the requested relationship type connects it to a document
// matching the counterpart predicate. Unmatched documents are listed
// explicitly so gaps are visible.
func (e *Engine) runMatching(spec *models.QuerySpec, docs []*models.Document) (*models.QueryResult, error) {
	if err := requireField(docs, spec.Role.Field, "role.field"); err != nil {
		return nil, err
	}
	if err := requireField(e.graph.Documents(), spec.Counterpart.Field, "counterpart.field"); err != nil {
		return nil, err
	}

	var tracker confidenceTracker
	result := &models.QueryResult{Type: models.QueryMatching}
	seen := make(map[string]bool)

	for _, doc := range docs {
		if !matchPredicate(doc, spec.Role) {
			continue
		}
		entry := models.MatchEntry{DocumentID: doc.ID}
		for _, neighbor := range e.graph.Neighbors(doc.ID) {
			edge, ok := e.graph.Edge(doc.ID, neighbor.ID)
			if !ok {
				continue
			}
			if spec.RelationType != "" && edge.Type != spec.RelationType {
				continue
			}
			if !matchPredicate(neighbor, spec.Counterpart) {
				continue
			}
			entry.Matched = true
			entry.CounterpartIDs = append(entry.CounterpartIDs, neighbor.ID)
			tracker.observe(edge.Confidence)
			if !seen[neighbor.ID] {
				seen[neighbor.ID] = true
				result.SourceDocuments = append(result.SourceDocuments, neighbor.ID)
			}
		}
		result.Matches = append(result.Matches, entry)
		if !entry.Matched {
			result.Unmatched = append(result.Unmatched, doc.ID)
		}
		if !seen[doc.ID] {
			seen[doc.ID] = true
			result.SourceDocuments = append(result.SourceDocuments, doc.ID)
		}
	}

	result.Confidence = tracker.value()
	return result, nil
}
