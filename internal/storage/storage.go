// Package storage defines the persistence interface for batches and their graphs.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/hyperjump/kizuna/internal/models"
)

// ErrBatchNotFound is returned when a batch id is not in the store.
var ErrBatchNotFound = errors.New("batch not found")

// BatchInfo summarizes a stored batch.
type BatchInfo struct {
	ID                string    `json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	DocumentCount     int       `json:"document_count"`
	RelationshipCount int       `json:"relationship_count"`
}

// Store persists built batches so graphs survive restarts and can be queried
// later. Building is append-only per batch: SaveBatch writes documents and
// relationships in one transaction.
type Store interface {
	SaveBatch(ctx context.Context, batch *models.Batch) error
	GetBatch(ctx context.Context, id string) (*models.Batch, error)
	ListBatches(ctx context.Context) ([]BatchInfo, error)
	DeleteBatch(ctx context.Context, id string) error
	CountBatches(ctx context.Context) (int64, error)

	Close() error
}
