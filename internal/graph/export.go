package graph

import (
	"fmt"

	"github.com/hyperjump/kizuna/internal/models"
)

// Export produces the serializable representation of the graph: nodes with
// display metadata, all edges (best first), and the cluster partition.
func (g *Graph) Export(batchID string) *models.GraphExport {
	nodes := make([]models.NodeExport, 0, len(g.order))
	for _, id := range g.order {
		doc := g.docs[id]
		nodes = append(nodes, models.NodeExport{
			ID:        doc.ID,
			Filename:  doc.Filename,
			MIMEType:  doc.MIMEType,
			SizeBytes: doc.SizeBytes,
		})
	}
	return &models.GraphExport{
		BatchID:  batchID,
		Nodes:    nodes,
		Edges:    g.Edges(),
		Clusters: g.Clusters(),
	}
}

// FromBatch reconstructs a graph from a persisted batch without re-running
// detection.
func FromBatch(batch *models.Batch) (*Graph, error) {
	g := New()
	for _, doc := range batch.Documents {
		if err := g.AddDocument(doc); err != nil {
			return nil, fmt.Errorf("batch %s: %w", batch.ID, err)
		}
	}
	for _, rel := range batch.Relationships {
		if err := g.AddRelationship(rel); err != nil {
			return nil, fmt.Errorf("batch %s: %w", batch.ID, err)
		}
	}
	return g, nil
}
