package relate

import (
	"context"
	"sort"
	"sync"

	"github.com/hyperjump/kizuna/internal/detect"
	"github.com/hyperjump/kizuna/internal/models"
	"go.uber.org/zap"
)

// Runner fans detection out over all document pairs of a batch with a bounded
// worker pool. Each worker computes the full relationship for one pair
// locally; a single collector goroutine owns the result slice, so no partial
// writes are ever visible.
type Runner struct {
	detectors  []detect.Detector
	aggregator *Aggregator
	workers    int
	logger     *zap.Logger
}

// NewRunner creates a Runner. workers bounds concurrent pair extraction.
func NewRunner(detectors []detect.Detector, aggregator *Aggregator, workers int, logger *zap.Logger) *Runner {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		detectors:  detectors,
		aggregator: aggregator,
		workers:    workers,
		logger:     logger,
	}
}

type pair struct {
	a, b *models.Document
}

// Run detects relationships across all O(n^2) pairs of docs. A detector
// failure (including a panic) costs only that pair's signal from that
// detector; the batch always completes. Results are sorted by pair key.
func (r *Runner) Run(ctx context.Context, docs []*models.Document) []*models.Relationship {
	if len(docs) < 2 {
		return nil
	}

	pairs := make(chan pair)
	results := make(chan *models.Relationship)

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range pairs {
				if rel := r.detectPair(ctx, p.a, p.b); rel != nil {
					results <- rel
				}
			}
		}()
	}

	go func() {
		defer close(pairs)
		for i := 0; i < len(docs); i++ {
			for j := i + 1; j < len(docs); j++ {
				select {
				case pairs <- pair{a: docs[i], b: docs[j]}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var out []*models.Relationship
	for rel := range results {
		out = append(out, rel)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PairKey() < out[j].PairKey() })
	return out
}

// detectPair runs every detector on one pair and aggregates locally.
func (r *Runner) detectPair(ctx context.Context, a, b *models.Document) *models.Relationship {
	var evidence []models.Evidence
	for _, d := range r.detectors {
		evidence = append(evidence, r.detectOne(ctx, d, a, b)...)
	}
	if len(evidence) == 0 {
		return nil
	}
	return r.aggregator.AggregatePair(r.pruned(evidence))
}

// detectOne isolates a single detector invocation so a panic in one detector
// cannot take down the batch.
func (r *Runner) detectOne(ctx context.Context, d detect.Detector, a, b *models.Document) (out []models.Evidence) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("detector panicked",
				zap.String("detector", d.Name()),
				zap.String("source", a.ID),
				zap.String("target", b.ID),
				zap.Any("panic", rec),
			)
			out = nil
		}
	}()
	return d.Detect(ctx, a, b)
}

// pruned drops evidence at or below the configured floor.
func (r *Runner) pruned(evidence []models.Evidence) []models.Evidence {
	kept := evidence[:0]
	for _, ev := range evidence {
		if ev.Confidence > r.aggregator.config.EvidenceFloor {
			kept = append(kept, ev)
		}
	}
	return kept
}
