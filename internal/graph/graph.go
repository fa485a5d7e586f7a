// Package graph holds the per-batch document graph: documents as nodes and
// detected relationships as weighted, typed, evidenced edges.
package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hyperjump/kizuna/internal/models"
)

var (
	// ErrDuplicateDocument is returned when a document id is added twice.
	ErrDuplicateDocument = errors.New("duplicate document")
	// ErrUnknownDocument is returned when an edge references an id that was
	// never added; this indicates an upstream ordering bug and is fatal.
	ErrUnknownDocument = errors.New("unknown document")
	// ErrSelfLoop is returned when an edge would relate a document to itself.
	ErrSelfLoop = errors.New("self loop")
)

// Graph is the document graph for one batch. Build it fully, then query;
// it is not safe for concurrent mutation and reads.
type Graph struct {
	docs  map[string]*models.Document
	order []string
	edges map[string]*models.Relationship
	adj   map[string]map[string]string // doc id -> neighbor id -> pair key
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		docs:  make(map[string]*models.Document),
		edges: make(map[string]*models.Relationship),
		adj:   make(map[string]map[string]string),
	}
}

// AddDocument registers a node. Fails if the id is already present.
func (g *Graph) AddDocument(doc *models.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document has empty id")
	}
	if _, exists := g.docs[doc.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDocument, doc.ID)
	}
	g.docs[doc.ID] = doc
	g.order = append(g.order, doc.ID)
	return nil
}

// AddRelationship stores an edge, replacing any prior edge for the same
// canonical pair. Both endpoints must already be registered.
func (g *Graph) AddRelationship(rel *models.Relationship) error {
	src, dst := models.CanonicalPair(rel.SourceID, rel.TargetID)
	if src == dst {
		return fmt.Errorf("%w: %s", ErrSelfLoop, src)
	}
	if _, ok := g.docs[src]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDocument, src)
	}
	if _, ok := g.docs[dst]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDocument, dst)
	}
	stored := *rel
	stored.SourceID, stored.TargetID = src, dst
	key := stored.PairKey()
	g.edges[key] = &stored
	g.link(src, dst, key)
	g.link(dst, src, key)
	return nil
}

func (g *Graph) link(from, to, key string) {
	if g.adj[from] == nil {
		g.adj[from] = make(map[string]string)
	}
	g.adj[from][to] = key
}

// Document returns the node with the given id.
func (g *Graph) Document(id string) (*models.Document, bool) {
	doc, ok := g.docs[id]
	return doc, ok
}

// Documents returns all nodes in insertion order.
func (g *Graph) Documents() []*models.Document {
	out := make([]*models.Document, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.docs[id])
	}
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.docs)
}

// Neighbors returns the documents connected to id by any edge, regardless of
// stored direction, sorted by id.
func (g *Graph) Neighbors(id string) []*models.Document {
	ids := make([]string, 0, len(g.adj[id]))
	for neighbor := range g.adj[id] {
		ids = append(ids, neighbor)
	}
	sort.Strings(ids)
	out := make([]*models.Document, 0, len(ids))
	for _, n := range ids {
		out = append(out, g.docs[n])
	}
	return out
}

// Edge returns the stored relationship between a and b in either direction.
func (g *Graph) Edge(a, b string) (*models.Relationship, bool) {
	rel, ok := g.edges[models.PairKey(a, b)]
	return rel, ok
}

// Edges returns all edges ordered by descending confidence, then pair key.
func (g *Graph) Edges() []*models.Relationship {
	return g.EdgesAbove(0)
}

// EdgesAbove returns edges with confidence >= threshold, ordered by
// descending confidence then canonical pair id for determinism.
func (g *Graph) EdgesAbove(threshold float64) []*models.Relationship {
	out := make([]*models.Relationship, 0, len(g.edges))
	for _, rel := range g.edges {
		if rel.Confidence >= threshold {
			out = append(out, rel)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].PairKey() < out[j].PairKey()
	})
	return out
}
