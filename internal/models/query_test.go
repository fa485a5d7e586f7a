package models

import (
	"strings"
	"testing"
)

func TestQuerySpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    QuerySpec
		wantErr string
	}{
		{
			name:    "missing type",
			spec:    QuerySpec{},
			wantErr: "query_type",
		},
		{
			name:    "unknown type",
			spec:    QuerySpec{Type: "fuzzy"},
			wantErr: "unknown query_type",
		},
		{
			name: "aggregation ok",
			spec: QuerySpec{Type: QueryAggregation, GroupBy: "vendor_name", SumField: "total_amount"},
		},
		{
			name:    "aggregation missing group_by",
			spec:    QuerySpec{Type: QueryAggregation},
			wantErr: "group_by",
		},
		{
			name: "matching ok",
			spec: QuerySpec{
				Type:        QueryMatching,
				Role:        &FieldPredicate{Field: "doc_type", Equals: "invoice"},
				Counterpart: &FieldPredicate{Field: "doc_type", Equals: "purchase_order"},
			},
		},
		{
			name:    "matching missing role",
			spec:    QuerySpec{Type: QueryMatching, Counterpart: &FieldPredicate{Field: "doc_type"}},
			wantErr: "role.field",
		},
		{
			name:    "matching missing counterpart",
			spec:    QuerySpec{Type: QueryMatching, Role: &FieldPredicate{Field: "doc_type"}},
			wantErr: "counterpart.field",
		},
		{
			name: "validation ok",
			spec: QuerySpec{
				Type: QueryValidation,
				Rule: &ValidationRule{SourceField: "invoice_total", TargetField: "po_total", Op: "lte"},
			},
		},
		{
			name:    "validation missing rule",
			spec:    QuerySpec{Type: QueryValidation},
			wantErr: "requires rule",
		},
		{
			name: "validation missing op",
			spec: QuerySpec{
				Type: QueryValidation,
				Rule: &ValidationRule{SourceField: "a", TargetField: "b"},
			},
			wantErr: "requires op",
		},
		{
			name: "validation unknown op",
			spec: QuerySpec{
				Type: QueryValidation,
				Rule: &ValidationRule{SourceField: "a", TargetField: "b", Op: "approx"},
			},
			wantErr: "unknown op",
		},
		{
			name: "validation negative tolerance",
			spec: QuerySpec{
				Type: QueryValidation,
				Rule: &ValidationRule{SourceField: "a", TargetField: "b", Op: "eq", Tolerance: -1},
			},
			wantErr: "tolerance",
		},
		{
			name: "temporal within ok",
			spec: QuerySpec{Type: QueryTemporal, DateField: "invoice_date", WithinDays: 7, ReferenceDate: "2024-03-15"},
		},
		{
			name: "temporal before ok",
			spec: QuerySpec{Type: QueryTemporal, DateField: "invoice_date", Before: "2024-03-15"},
		},
		{
			name:    "temporal missing date_field",
			spec:    QuerySpec{Type: QueryTemporal, Before: "2024-03-15"},
			wantErr: "date_field",
		},
		{
			name:    "temporal within without reference",
			spec:    QuerySpec{Type: QueryTemporal, DateField: "invoice_date", WithinDays: 7},
			wantErr: "reference_date",
		},
		{
			name:    "temporal no constraint",
			spec:    QuerySpec{Type: QueryTemporal, DateField: "invoice_date"},
			wantErr: "within_days, before, or after",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
