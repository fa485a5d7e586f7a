// Package report exports a built graph as an xlsx workbook for human review.
package report

import (
	"fmt"
	"strings"

	"github.com/hyperjump/kizuna/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	sheetDocuments     = "Documents"
	sheetRelationships = "Relationships"
	sheetClusters      = "Clusters"
)

// WriteWorkbook writes the graph export to an xlsx file with one sheet each
// for documents, relationships, and clusters.
func WriteWorkbook(export *models.GraphExport, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetDocuments)
	if err := writeRows(f, sheetDocuments, documentRows(export)); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetRelationships); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetRelationships, err)
	}
	if err := writeRows(f, sheetRelationships, relationshipRows(export)); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetClusters); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetClusters, err)
	}
	if err := writeRows(f, sheetClusters, clusterRows(export)); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func documentRows(export *models.GraphExport) [][]interface{} {
	rows := [][]interface{}{{"ID", "Filename", "MIME Type", "Size (bytes)"}}
	for _, node := range export.Nodes {
		rows = append(rows, []interface{}{node.ID, node.Filename, node.MIMEType, node.SizeBytes})
	}
	return rows
}

func relationshipRows(export *models.GraphExport) [][]interface{} {
	rows := [][]interface{}{{"Source", "Target", "Type", "Confidence", "Methods", "Evidence"}}
	for _, edge := range export.Edges {
		methods := make([]string, 0, len(edge.Methods))
		for _, m := range edge.Methods {
			methods = append(methods, string(m))
		}
		details := make([]string, 0, len(edge.Evidence))
		for _, ev := range edge.Evidence {
			details = append(details, ev.Detail)
		}
		rows = append(rows, []interface{}{
			edge.SourceID,
			edge.TargetID,
			string(edge.Type),
			edge.Confidence,
			strings.Join(methods, ", "),
			strings.Join(details, " | "),
		})
	}
	return rows
}

func clusterRows(export *models.GraphExport) [][]interface{} {
	rows := [][]interface{}{{"Cluster", "Size", "Documents"}}
	for i, cluster := range export.Clusters {
		rows = append(rows, []interface{}{i + 1, len(cluster), strings.Join(cluster, ", ")})
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("failed to compute cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
