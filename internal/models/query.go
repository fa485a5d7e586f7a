package models

import "fmt"

// QueryType selects which cross-document query to run.
type QueryType string

const (
	QueryAggregation QueryType = "aggregation"
	QueryMatching    QueryType = "matching"
	QueryValidation  QueryType = "validation"
	QueryTemporal    QueryType = "temporal"
)

// FieldPredicate selects documents by an extracted field's value.
// Equals takes precedence over Contains; an empty predicate with only a
// Field set matches any document that has the field.
type FieldPredicate struct {
	Field    string `json:"field"`
	Equals   string `json:"equals,omitempty"`
	Contains string `json:"contains,omitempty"`
}

// ValidationRule declares a numeric consistency check across a relationship's
// two endpoints, e.g. invoice total <= purchase order total within tolerance.
type ValidationRule struct {
	SourceField string  `json:"source_field"`
	TargetField string  `json:"target_field"`
	Op          string  `json:"op"` // lte, gte, eq
	Tolerance   float64 `json:"tolerance,omitempty"`
}

// QuerySpec is a structured cross-document query. Scope is a set of document
// ids; empty means all documents in the graph.
type QuerySpec struct {
	Type  QueryType `json:"query_type"`
	Scope []string  `json:"scope,omitempty"`

	// Aggregation: group documents by GroupBy, summing SumField (count-only
	// when SumField is empty).
	GroupBy  string `json:"group_by,omitempty"`
	SumField string `json:"sum_field,omitempty"`

	// Matching: for each document matching Role, report whether an edge of
	// RelationType (any type when empty) connects it to a Counterpart match.
	Role         *FieldPredicate  `json:"role,omitempty"`
	Counterpart  *FieldPredicate  `json:"counterpart,omitempty"`
	RelationType RelationshipType `json:"relationship_type,omitempty"`

	// Validation.
	Rule *ValidationRule `json:"rule,omitempty"`

	// Temporal: filter by DateField within WithinDays of ReferenceDate, or
	// before/after cutoffs.
	DateField     string `json:"date_field,omitempty"`
	ReferenceDate string `json:"reference_date,omitempty"`
	WithinDays    int    `json:"within_days,omitempty"`
	Before        string `json:"before,omitempty"`
	After         string `json:"after,omitempty"`
}

// Validate checks that the query names a known type and carries the
// parameters that type requires. Errors identify the offending parameter so
// misconfiguration is never silently masked.
func (q *QuerySpec) Validate() error {
	switch q.Type {
	case QueryAggregation:
		if q.GroupBy == "" {
			return fmt.Errorf("aggregation query requires group_by")
		}
	case QueryMatching:
		if q.Role == nil || q.Role.Field == "" {
			return fmt.Errorf("matching query requires role.field")
		}
		if q.Counterpart == nil || q.Counterpart.Field == "" {
			return fmt.Errorf("matching query requires counterpart.field")
		}
	case QueryValidation:
		if q.Rule == nil {
			return fmt.Errorf("validation query requires rule")
		}
		if q.Rule.SourceField == "" || q.Rule.TargetField == "" {
			return fmt.Errorf("validation rule requires source_field and target_field")
		}
		switch q.Rule.Op {
		case "lte", "gte", "eq":
		case "":
			return fmt.Errorf("validation rule requires op (lte, gte, or eq)")
		default:
			return fmt.Errorf("validation rule has unknown op %q", q.Rule.Op)
		}
		if q.Rule.Tolerance < 0 {
			return fmt.Errorf("validation rule tolerance must not be negative")
		}
	case QueryTemporal:
		if q.DateField == "" {
			return fmt.Errorf("temporal query requires date_field")
		}
		if q.WithinDays < 0 {
			return fmt.Errorf("temporal query within_days must not be negative")
		}
		if q.WithinDays > 0 && q.ReferenceDate == "" {
			return fmt.Errorf("temporal query with within_days requires reference_date")
		}
		if q.WithinDays == 0 && q.Before == "" && q.After == "" {
			return fmt.Errorf("temporal query requires within_days, before, or after")
		}
	case "":
		return fmt.Errorf("query_type is required")
	default:
		return fmt.Errorf("unknown query_type %q", q.Type)
	}
	return nil
}
