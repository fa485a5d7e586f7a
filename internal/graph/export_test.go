package graph

import (
	"errors"
	"testing"
	"time"

	"github.com/hyperjump/kizuna/internal/models"
)

func TestExport(t *testing.T) {
	g := buildGraph(t, []string{"doc:a", "doc:b", "doc:c"}, []*models.Relationship{
		rel("doc:a", "doc:b", 0.9),
	})

	export := g.Export("batch-1")
	if export.BatchID != "batch-1" {
		t.Errorf("BatchID = %q, want batch-1", export.BatchID)
	}
	if len(export.Nodes) != 3 {
		t.Errorf("Nodes = %d, want 3", len(export.Nodes))
	}
	if export.Nodes[0].Filename != "doc:a.pdf" {
		t.Errorf("Nodes[0].Filename = %q, want doc:a.pdf", export.Nodes[0].Filename)
	}
	if len(export.Edges) != 1 {
		t.Errorf("Edges = %d, want 1", len(export.Edges))
	}
	if len(export.Clusters) != 2 {
		t.Errorf("Clusters = %d, want 2 (pair + singleton)", len(export.Clusters))
	}
}

func TestFromBatch(t *testing.T) {
	batch := &models.Batch{
		ID:        "batch-1",
		CreatedAt: time.Now(),
		Documents: []*models.Document{doc("doc:a"), doc("doc:b")},
		Relationships: []*models.Relationship{
			rel("doc:a", "doc:b", 0.85),
		},
	}

	g, err := FromBatch(batch)
	if err != nil {
		t.Fatalf("FromBatch() failed: %v", err)
	}
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}
	edge, ok := g.Edge("doc:a", "doc:b")
	if !ok || edge.Confidence != 0.85 {
		t.Errorf("Edge() = %+v, %v; want restored edge with confidence 0.85", edge, ok)
	}
}

func TestFromBatchRejectsCorruptBatch(t *testing.T) {
	batch := &models.Batch{
		ID:        "batch-1",
		Documents: []*models.Document{doc("doc:a")},
		Relationships: []*models.Relationship{
			rel("doc:a", "doc:missing", 0.9),
		},
	}
	if _, err := FromBatch(batch); !errors.Is(err, ErrUnknownDocument) {
		t.Errorf("FromBatch() error = %v, want ErrUnknownDocument", err)
	}
}
