package report

import (
	"path/filepath"
	"testing"

	"github.com/hyperjump/kizuna/internal/models"
	"github.com/xuri/excelize/v2"
)

func testExport() *models.GraphExport {
	return &models.GraphExport{
		BatchID: "batch-1",
		Nodes: []models.NodeExport{
			{ID: "doc:inv1", Filename: "inv-001.pdf", MIMEType: "application/pdf", SizeBytes: 2048},
			{ID: "doc:po1", Filename: "po-001.pdf"},
		},
		Edges: []*models.Relationship{
			{
				SourceID:   "doc:inv1",
				TargetID:   "doc:po1",
				Type:       models.RelationInvoiceForPO,
				Confidence: 0.95,
				Evidence: []models.Evidence{
					{Method: models.MethodExplicitReference, Detail: "po_number \"PO-001\" referenced"},
				},
				Methods: []models.DetectionMethod{models.MethodExplicitReference},
			},
		},
		Clusters: [][]string{{"doc:inv1", "doc:po1"}},
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := WriteWorkbook(testExport(), path); err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{sheetDocuments, sheetRelationships, sheetClusters} {
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			t.Errorf("sheet %q missing: idx=%d err=%v", sheet, idx, err)
		}
	}

	if got, _ := f.GetCellValue(sheetDocuments, "A2"); got != "doc:inv1" {
		t.Errorf("Documents!A2 = %q, want doc:inv1", got)
	}
	if got, _ := f.GetCellValue(sheetDocuments, "B3"); got != "po-001.pdf" {
		t.Errorf("Documents!B3 = %q, want po-001.pdf", got)
	}
	if got, _ := f.GetCellValue(sheetRelationships, "C2"); got != "invoice_for_po" {
		t.Errorf("Relationships!C2 = %q, want invoice_for_po", got)
	}
	if got, _ := f.GetCellValue(sheetRelationships, "E2"); got != "explicit_reference" {
		t.Errorf("Relationships!E2 = %q, want explicit_reference", got)
	}
	if got, _ := f.GetCellValue(sheetClusters, "C2"); got != "doc:inv1, doc:po1" {
		t.Errorf("Clusters!C2 = %q, want member list", got)
	}
}

func TestWriteWorkbookEmptyGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	export := &models.GraphExport{BatchID: "batch-2"}
	if err := WriteWorkbook(export, path); err != nil {
		t.Fatalf("WriteWorkbook on empty export failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer f.Close()
	if got, _ := f.GetCellValue(sheetDocuments, "A1"); got != "ID" {
		t.Errorf("Documents!A1 = %q, want header row", got)
	}
}
