// Package services holds operations behind the HTTP surface that are big
// enough to not live in a route closure.
package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"elasti/internal/logger"
	"elasti/internal/search"
	"elasti/models"
)

// ExportService builds spreadsheet exports of a project's indexed content.
type ExportService struct {
	index search.Index
}

func NewExportService(index search.Index) *ExportService {
	return &ExportService{index: index}
}

// ExportProjectChunks renders every indexed chunk of the project into an
// xlsx workbook: one content sheet plus a small summary sheet.
func (es *ExportService) ExportProjectChunks(ctx context.Context, project *models.Project) ([]byte, int, error) {
	chunks, err := es.index.ListProject(ctx, project.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load project chunks: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("Failed to close export workbook", "error", err)
		}
	}()

	sheetName := "Indexed Content"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"URL", "Title", "Content", "Crawled At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	urls := make(map[string]bool)
	for rowIdx, chunk := range chunks {
		row := rowIdx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), chunk.URL)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), chunk.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), chunk.Content)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), chunk.CrawledAt.Format("2006-01-02 15:04:05"))
		urls[chunk.URL] = true
	}

	f.SetColWidth(sheetName, "A", "B", 40)
	f.SetColWidth(sheetName, "C", "C", 80)
	f.SetColWidth(sheetName, "D", "D", 20)

	summarySheet := "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, 0, fmt.Errorf("failed to create summary sheet: %w", err)
	}

	summaryData := [][]interface{}{
		{"Project", project.Name},
		{"URL", project.URL},
		{"Total Chunks", len(chunks)},
		{"Unique Pages", len(urls)},
	}
	if project.LastCrawledAt != nil {
		summaryData = append(summaryData, []interface{}{"Last Crawled", project.LastCrawledAt.Format("2006-01-02 15:04:05")})
	}
	for i, row := range summaryData {
		for j, cell := range row {
			cellRef := fmt.Sprintf("%c%d", 'A'+j, i+1)
			f.SetCellValue(summarySheet, cellRef, cell)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, 0, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), len(chunks), nil
}
