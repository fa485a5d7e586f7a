// Package query answers structured cross-document queries over a built graph.
package query

import (
	"fmt"
	"strings"

	"github.com/hyperjump/kizuna/internal/graph"
	"github.com/hyperjump/kizuna/internal/models"
	"go.uber.org/zap"
)

// Engine runs read-only queries against one completed graph. Build the graph
// fully before opening it for querying; the engine never mutates it.
type Engine struct {
	graph  *graph.Graph
	logger *zap.Logger
}

// NewEngine creates a query engine over g.
func NewEngine(g *graph.Graph, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{graph: g, logger: logger}
}

// Run validates and dispatches a query. Unknown query types and predicates
// referencing fields absent from every scoped document fail fast with a
// descriptive error rather than returning empty results.
func (e *Engine) Run(spec *models.QuerySpec) (*models.QueryResult, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	docs, err := e.scopedDocuments(spec.Scope)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("running query",
		zap.String("type", string(spec.Type)),
		zap.Int("scope_size", len(docs)),
	)

	switch spec.Type {
	case models.QueryAggregation:
		return e.runAggregation(spec, docs)
	case models.QueryMatching:
		return e.runMatching(spec, docs)
	case models.QueryValidation:
		return e.runValidation(spec, docs)
	case models.QueryTemporal:
		return e.runTemporal(spec, docs)
	default:
		return nil, fmt.Errorf("unknown query_type %q", spec.Type)
	}
}

// scopedDocuments resolves the scope ids, or all documents when empty.
func (e *Engine) scopedDocuments(scope []string) ([]*models.Document, error) {
	if len(scope) == 0 {
		return e.graph.Documents(), nil
	}
	out := make([]*models.Document, 0, len(scope))
	for _, id := range scope {
		doc, ok := e.graph.Document(id)
		if !ok {
			return nil, fmt.Errorf("scope references unknown document %q", id)
		}
		out = append(out, doc)
	}
	return out, nil
}

// requireField fails unless at least one scoped document carries the field,
// so a typo in a field name surfaces instead of yielding empty results.
func requireField(docs []*models.Document, field, param string) error {
	for _, doc := range docs {
		if _, ok := doc.Field(field); ok {
			return nil
		}
	}
	return fmt.Errorf("%s references field %q not present on any scoped document", param, field)
}

// matchPredicate reports whether a document satisfies a field predicate.
func matchPredicate(doc *models.Document, p *models.FieldPredicate) bool {
	fv, ok := doc.Field(p.Field)
	if !ok {
		return false
	}
	if p.Equals != "" {
		return strings.EqualFold(strings.TrimSpace(fv.Value), strings.TrimSpace(p.Equals))
	}
	if p.Contains != "" {
		return strings.Contains(strings.ToLower(fv.Value), strings.ToLower(p.Contains))
	}
	return true
}

// confidenceTracker computes the conservative result confidence: the minimum
// over all graph edges relied upon, 1.0 when no edge was needed.
type confidenceTracker struct {
	min float64
	set bool
}

func (c *confidenceTracker) observe(confidence float64) {
	if !c.set || confidence < c.min {
		c.min = confidence
		c.set = true
	}
}

func (c *confidenceTracker) value() float64 {
	if !c.set {
		return 1.0
	}
	return c.min
}

func documentIDs(docs []*models.Document) []string {
	out := make([]string, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.ID)
	}
	return out
}
