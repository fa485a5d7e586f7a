// Package batchio loads extracted-document batches from JSON files and
// assigns stable document ids.
package batchio

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hyperjump/kizuna/internal/models"
)

const idPrefix = "doc:"

// DocID returns a stable document id derived from the filename and text
// content, so re-submitting the same extracted document yields the same id.
func DocID(filename, text string) string {
	hash := sha256.Sum256([]byte(filename + "\x00" + text))
	return idPrefix + hex.EncodeToString(hash[:16])
}

// batchFile is the accepted on-disk shape: either a bare JSON array of
// documents or an object with a "documents" key.
type batchFile struct {
	Documents []*models.Document `json:"documents"`
}

// LoadFile reads a batch JSON file and returns its documents with ids filled.
func LoadFile(path string) ([]*models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return Parse(data)
}

// Parse decodes batch JSON and assigns ids to documents that lack one.
func Parse(data []byte) ([]*models.Document, error) {
	var docs []*models.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		var wrapped batchFile
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("failed to parse batch JSON: %w", err)
		}
		docs = wrapped.Documents
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("batch contains no documents")
	}
	EnsureIDs(docs)
	return docs, nil
}

// EnsureIDs fills empty document ids with content-hash ids.
func EnsureIDs(docs []*models.Document) {
	for _, doc := range docs {
		if doc.ID == "" {
			doc.ID = DocID(doc.Filename, doc.Text)
		}
	}
}
