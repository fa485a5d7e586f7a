package models

import "time"

// RelationshipType labels the kind of connection between two documents.
type RelationshipType string

const (
	RelationInvoiceForPO   RelationshipType = "invoice_for_po"
	RelationVersionedCopy  RelationshipType = "versioned_copy"
	RelationMultiPart      RelationshipType = "multi_part"
	RelationReferences     RelationshipType = "references"
	RelationSharedEntities RelationshipType = "shared_entities"
	RelationTemporal       RelationshipType = "temporally_related"
	RelationRelated        RelationshipType = "related"
)

// Relationship is the fused, deduplicated result of all evidence for one
// canonical document pair. Evidence preserves detector emission order.
type Relationship struct {
	SourceID   string            `json:"source_id"`
	TargetID   string            `json:"target_id"`
	Type       RelationshipType  `json:"relationship_type"`
	Confidence float64           `json:"confidence"`
	Evidence   []Evidence        `json:"evidence"`
	Methods    []DetectionMethod `json:"detection_methods"`
}

// PairKey returns the canonical key for the relationship's pair.
func (r *Relationship) PairKey() string {
	return PairKey(r.SourceID, r.TargetID)
}

// HasMethod reports whether the given method contributed to this relationship.
func (r *Relationship) HasMethod(m DetectionMethod) bool {
	for _, method := range r.Methods {
		if method == m {
			return true
		}
	}
	return false
}

// Batch groups the documents and detected relationships of one pipeline run.
type Batch struct {
	ID            string          `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	Documents     []*Document     `json:"documents"`
	Relationships []*Relationship `json:"relationships"`
}

// NodeExport is the minimal display metadata for one graph node.
type NodeExport struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	MIMEType  string `json:"mime_type,omitempty"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

// GraphExport is the serializable representation of a document graph.
type GraphExport struct {
	BatchID  string          `json:"batch_id,omitempty"`
	Nodes    []NodeExport    `json:"nodes"`
	Edges    []*Relationship `json:"edges"`
	Clusters [][]string      `json:"clusters"`
}
