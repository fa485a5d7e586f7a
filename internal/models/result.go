package models

// AggregationGroup is one group of an aggregation query result.
type AggregationGroup struct {
	Key         string   `json:"key"`
	Sum         float64  `json:"sum,omitempty"`
	Count       int      `json:"count"`
	DocumentIDs []string `json:"document_ids"`
}

// MatchEntry reports whether one role document found a counterpart.
type MatchEntry struct {
	DocumentID     string   `json:"document_id"`
	Matched        bool     `json:"matched"`
	CounterpartIDs []string `json:"counterpart_ids,omitempty"`
}

// ValidationCheck is the outcome of one rule evaluation across an edge.
type ValidationCheck struct {
	SourceID    string  `json:"source_id"`
	TargetID    string  `json:"target_id"`
	SourceValue float64 `json:"source_value"`
	TargetValue float64 `json:"target_value"`
	Passed      bool    `json:"passed"`
}

// QueryResult holds the answer to a cross-document query. SourceDocuments
// lists the document ids actually used; Confidence is the minimum confidence
// among graph edges relied upon (1.0 when no edges were needed).
type QueryResult struct {
	Type            QueryType          `json:"query_type"`
	Groups          []AggregationGroup `json:"groups,omitempty"`
	Matches         []MatchEntry       `json:"matches,omitempty"`
	Unmatched       []string           `json:"unmatched,omitempty"`
	Checks          []ValidationCheck  `json:"checks,omitempty"`
	DocumentIDs     []string           `json:"document_ids,omitempty"`
	SourceDocuments []string           `json:"source_documents"`
	Confidence      float64            `json:"confidence"`
}
