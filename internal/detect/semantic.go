package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hyperjump/kizuna/internal/models"
	"github.com/hyperjump/kizuna/pkg/utils"
	"go.uber.org/zap"
)

const defaultScorerTimeout = 5 * time.Second

// Scorer is the external semantic scoring capability: given two documents'
// text it returns a relatedness confidence and a justification. In a full
// deployment this is where a language model sits; the engine only depends on
// this contract.
type Scorer interface {
	Score(ctx context.Context, textA, textB string) (float64, string, error)
}

// SemanticDetector wraps a Scorer as a detector. Scorer timeouts and errors
// mean "no evidence" for that pair; they are logged, never fatal to a batch.
type SemanticDetector struct {
	scorer  Scorer
	timeout time.Duration
	logger  *zap.Logger
}

// NewSemanticDetector creates a SemanticDetector with the default timeout.
func NewSemanticDetector(scorer Scorer, logger *zap.Logger) *SemanticDetector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SemanticDetector{scorer: scorer, timeout: defaultScorerTimeout, logger: logger}
}

// WithTimeout sets the per-call scorer timeout.
func (d *SemanticDetector) WithTimeout(timeout time.Duration) *SemanticDetector {
	if timeout > 0 {
		d.timeout = timeout
	}
	return d
}

// Name returns the detector name.
func (d *SemanticDetector) Name() string {
	return string(models.MethodSemantic)
}

// Detect asks the scorer about the pair's text content.
func (d *SemanticDetector) Detect(ctx context.Context, a, b *models.Document) []models.Evidence {
	if a.Text == "" || b.Text == "" {
		return nil
	}
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	confidence, detail, err := d.scorer.Score(callCtx, a.Text, b.Text)
	if err != nil {
		d.logger.Warn("semantic scorer failed",
			zap.String("source", a.ID),
			zap.String("target", b.ID),
			zap.Error(err),
		)
		return nil
	}
	ev := models.Evidence{
		SourceID:   a.ID,
		TargetID:   b.ID,
		Method:     models.MethodSemantic,
		Confidence: utils.Clamp01(confidence),
		Detail:     detail,
		Type:       models.RelationRelated,
	}
	ev.Canonicalize()
	return []models.Evidence{ev}
}

// HTTPScorer calls an external scoring service over HTTP. The service accepts
// {"text_a": ..., "text_b": ...} and responds {"confidence": ..., "detail": ...}.
type HTTPScorer struct {
	endpoint string
	client   *http.Client
}

// NewHTTPScorer creates an HTTPScorer for the given endpoint.
func NewHTTPScorer(endpoint string, timeout time.Duration) *HTTPScorer {
	if timeout <= 0 {
		timeout = defaultScorerTimeout
	}
	return &HTTPScorer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type scoreRequest struct {
	TextA string `json:"text_a"`
	TextB string `json:"text_b"`
}

type scoreResponse struct {
	Confidence float64 `json:"confidence"`
	Detail     string  `json:"detail"`
}

// Score posts both texts to the scoring service.
func (s *HTTPScorer) Score(ctx context.Context, textA, textB string) (float64, string, error) {
	body, err := json.Marshal(scoreRequest{TextA: textA, TextB: textB})
	if err != nil {
		return 0, "", fmt.Errorf("failed to encode score request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, "", fmt.Errorf("failed to build score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("score request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, "", fmt.Errorf("scoring service returned status %d", resp.StatusCode)
	}
	var out scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, "", fmt.Errorf("failed to decode score response: %w", err)
	}
	return out.Confidence, out.Detail, nil
}

// MockScorer is a deterministic scorer for tests: it returns fixed values, or
// Err when set.
type MockScorer struct {
	Confidence float64
	Detail     string
	Err        error
}

// Score returns the configured values after honoring context cancellation.
func (s *MockScorer) Score(ctx context.Context, _, _ string) (float64, string, error) {
	if err := ctx.Err(); err != nil {
		return 0, "", err
	}
	if s.Err != nil {
		return 0, "", s.Err
	}
	return s.Confidence, s.Detail, nil
}
