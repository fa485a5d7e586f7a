// Package storage provides SQLite implementation of the Store interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/kizuna/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS batches (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS documents (
		batch_id TEXT NOT NULL,
		id TEXT NOT NULL,
		filename TEXT NOT NULL,
		mime_type TEXT,
		size_bytes INTEGER,
		fields TEXT,
		text_content TEXT,
		doc_date TIMESTAMP,
		PRIMARY KEY (batch_id, id),
		FOREIGN KEY (batch_id) REFERENCES batches(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS relationships (
		batch_id TEXT NOT NULL,
		source_id TEXT NOT NULL,
		target_id TEXT NOT NULL,
		relationship_type TEXT NOT NULL,
		confidence REAL NOT NULL,
		evidence TEXT,
		detection_methods TEXT,
		PRIMARY KEY (batch_id, source_id, target_id),
		FOREIGN KEY (batch_id) REFERENCES batches(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_documents_batch ON documents(batch_id);
	CREATE INDEX IF NOT EXISTS idx_relationships_batch ON relationships(batch_id);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveBatch writes a batch with its documents and relationships in one
// transaction. Saving an existing batch id fails.
func (s *SQLiteStore) SaveBatch(ctx context.Context, batch *models.Batch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = time.Now()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO batches (id, created_at) VALUES (?, ?)`,
		batch.ID, batch.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert batch %s: %w", batch.ID, err)
	}

	for _, doc := range batch.Documents {
		fieldsJSON, err := json.Marshal(doc.Fields)
		if err != nil {
			return fmt.Errorf("failed to marshal fields for %s: %w", doc.ID, err)
		}
		var docDate interface{}
		if doc.Date != nil {
			docDate = *doc.Date
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO documents (batch_id, id, filename, mime_type, size_bytes, fields, text_content, doc_date)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			batch.ID, doc.ID, doc.Filename, doc.MIMEType, doc.SizeBytes, string(fieldsJSON), doc.Text, docDate,
		); err != nil {
			return fmt.Errorf("failed to insert document %s: %w", doc.ID, err)
		}
	}

	for _, rel := range batch.Relationships {
		evidenceJSON, err := json.Marshal(rel.Evidence)
		if err != nil {
			return fmt.Errorf("failed to marshal evidence for %s/%s: %w", rel.SourceID, rel.TargetID, err)
		}
		methodsJSON, err := json.Marshal(rel.Methods)
		if err != nil {
			return fmt.Errorf("failed to marshal methods for %s/%s: %w", rel.SourceID, rel.TargetID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO relationships (batch_id, source_id, target_id, relationship_type, confidence, evidence, detection_methods)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			batch.ID, rel.SourceID, rel.TargetID, string(rel.Type), rel.Confidence, string(evidenceJSON), string(methodsJSON),
		); err != nil {
			return fmt.Errorf("failed to insert relationship %s/%s: %w", rel.SourceID, rel.TargetID, err)
		}
	}

	return tx.Commit()
}

// GetBatch loads a batch with all documents and relationships.
func (s *SQLiteStore) GetBatch(ctx context.Context, id string) (*models.Batch, error) {
	batch := &models.Batch{ID: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at FROM batches WHERE id = ?`, id,
	).Scan(&batch.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	docs, err := s.loadDocuments(ctx, id)
	if err != nil {
		return nil, err
	}
	batch.Documents = docs

	rels, err := s.loadRelationships(ctx, id)
	if err != nil {
		return nil, err
	}
	batch.Relationships = rels

	return batch, nil
}

func (s *SQLiteStore) loadDocuments(ctx context.Context, batchID string) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, mime_type, size_bytes, fields, text_content, doc_date
		 FROM documents WHERE batch_id = ? ORDER BY rowid`, batchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		var doc models.Document
		var fieldsJSON sql.NullString
		var mimeType sql.NullString
		var sizeBytes sql.NullInt64
		var docDate sql.NullTime
		if err := rows.Scan(&doc.ID, &doc.Filename, &mimeType, &sizeBytes, &fieldsJSON, &doc.Text, &docDate); err != nil {
			return nil, err
		}
		doc.MIMEType = mimeType.String
		doc.SizeBytes = sizeBytes.Int64
		if fieldsJSON.Valid && fieldsJSON.String != "" {
			if err := json.Unmarshal([]byte(fieldsJSON.String), &doc.Fields); err != nil {
				return nil, fmt.Errorf("failed to unmarshal fields for %s: %w", doc.ID, err)
			}
		}
		if docDate.Valid {
			t := docDate.Time
			doc.Date = &t
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStore) loadRelationships(ctx context.Context, batchID string) ([]*models.Relationship, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_id, target_id, relationship_type, confidence, evidence, detection_methods
		 FROM relationships WHERE batch_id = ? ORDER BY source_id, target_id`, batchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rels []*models.Relationship
	for rows.Next() {
		var rel models.Relationship
		var relType string
		var evidenceJSON, methodsJSON sql.NullString
		if err := rows.Scan(&rel.SourceID, &rel.TargetID, &relType, &rel.Confidence, &evidenceJSON, &methodsJSON); err != nil {
			return nil, err
		}
		rel.Type = models.RelationshipType(relType)
		if evidenceJSON.Valid && evidenceJSON.String != "" {
			if err := json.Unmarshal([]byte(evidenceJSON.String), &rel.Evidence); err != nil {
				return nil, fmt.Errorf("failed to unmarshal evidence for %s/%s: %w", rel.SourceID, rel.TargetID, err)
			}
		}
		if methodsJSON.Valid && methodsJSON.String != "" {
			if err := json.Unmarshal([]byte(methodsJSON.String), &rel.Methods); err != nil {
				return nil, fmt.Errorf("failed to unmarshal methods for %s/%s: %w", rel.SourceID, rel.TargetID, err)
			}
		}
		rels = append(rels, &rel)
	}
	return rels, rows.Err()
}

// ListBatches returns batch summaries, newest first.
func (s *SQLiteStore) ListBatches(ctx context.Context) ([]BatchInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT b.id, b.created_at,
		        (SELECT COUNT(*) FROM documents d WHERE d.batch_id = b.id),
		        (SELECT COUNT(*) FROM relationships r WHERE r.batch_id = b.id)
		 FROM batches b ORDER BY b.created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BatchInfo
	for rows.Next() {
		var info BatchInfo
		if err := rows.Scan(&info.ID, &info.CreatedAt, &info.DocumentCount, &info.RelationshipCount); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteBatch removes a batch and cascades to its documents and relationships.
func (s *SQLiteStore) DeleteBatch(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM batches WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrBatchNotFound, id)
	}
	return nil
}

// CountBatches returns the number of stored batches.
func (s *SQLiteStore) CountBatches(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM batches`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
