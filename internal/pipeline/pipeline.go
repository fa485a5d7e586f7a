// Package pipeline wires detectors, aggregation, and the graph into one
// batch build: documents in, completed graph out.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/kizuna/internal/config"
	"github.com/hyperjump/kizuna/internal/detect"
	"github.com/hyperjump/kizuna/internal/graph"
	"github.com/hyperjump/kizuna/internal/models"
	"github.com/hyperjump/kizuna/internal/refindex"
	"github.com/hyperjump/kizuna/internal/relate"
	"github.com/hyperjump/kizuna/internal/storage"
	"go.uber.org/zap"
)

// Pipeline builds document graphs from extracted-document batches.
type Pipeline struct {
	config *config.Config
	store  storage.Store
	scorer detect.Scorer
	logger *zap.Logger
}

// New creates a pipeline. store may be nil (no persistence); scorer may be
// nil (semantic detection disabled).
func New(cfg *config.Config, store storage.Store, scorer detect.Scorer, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{config: cfg, store: store, scorer: scorer, logger: logger}
}

// ScorerFromConfig builds the semantic scorer the config asks for, or nil
// when semantic detection is disabled.
func ScorerFromConfig(cfg *config.SemanticConfig) detect.Scorer {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil
	}
	return detect.NewHTTPScorer(cfg.Endpoint, cfg.Timeout())
}

// Build runs detection over docs and returns the completed graph. Document
// dates are resolved from configured fields, every document is registered as
// a node (duplicate ids are fatal for the batch), detectors fan out over all
// pairs, and accepted relationships become edges. The returned graph is fully
// built and ready for read-only querying.
func (p *Pipeline) Build(ctx context.Context, docs []*models.Document) (*graph.Graph, error) {
	start := time.Now()

	g := graph.New()
	for _, doc := range docs {
		models.ResolveDate(doc, p.config.Detect.DateFields)
		if err := g.AddDocument(doc); err != nil {
			return nil, err
		}
	}

	refIdx, err := refindex.New()
	if err != nil {
		return nil, err
	}
	defer refIdx.Close()
	for _, doc := range docs {
		if doc.Text == "" {
			continue
		}
		if err := refIdx.Add(doc); err != nil {
			return nil, err
		}
	}

	detectors := detect.DefaultDetectors(&p.config.Detect, refIdx, nil, p.logger)
	if p.scorer != nil {
		semantic := detect.NewSemanticDetector(p.scorer, p.logger).
			WithTimeout(p.config.Semantic.Timeout())
		detectors = append(detectors, semantic)
	}

	runner := relate.NewRunner(detectors, relate.NewAggregator(&p.config.Detect), p.config.Detect.Workers, p.logger)
	relationships := runner.Run(ctx, docs)

	// Single writer: all edges are committed here, after every worker has
	// finished its pair.
	for _, rel := range relationships {
		if err := g.AddRelationship(rel); err != nil {
			return nil, err
		}
	}

	p.logger.Info("batch built",
		zap.Int("documents", len(docs)),
		zap.Int("relationships", len(relationships)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return g, nil
}

// BuildBatch builds the graph and persists the batch when a store is
// configured. Returns the batch record and the completed graph.
func (p *Pipeline) BuildBatch(ctx context.Context, docs []*models.Document) (*models.Batch, *graph.Graph, error) {
	g, err := p.Build(ctx, docs)
	if err != nil {
		return nil, nil, err
	}
	batch := &models.Batch{
		ID:            uuid.NewString(),
		CreatedAt:     time.Now(),
		Documents:     docs,
		Relationships: g.Edges(),
	}
	if p.store != nil {
		if err := p.store.SaveBatch(ctx, batch); err != nil {
			return nil, nil, fmt.Errorf("failed to persist batch: %w", err)
		}
	}
	return batch, g, nil
}
