// Package export writes stored applications to spreadsheets.
package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/talentscout/internal/application"
)

const (
	applicationsSheet = "Applications"
	summariesSheet    = "Summaries"
)

var headers = []string{"ID", "Name", "Email", "Submitted At"}

// ToExcel writes records to outputPath, adding the .xlsx extension when missing.
// It returns the path actually written.
func ToExcel(records []application.Record, outputPath string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	f, err := build(records)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}

	return outputPath, nil
}

// WriteExcel streams the workbook to w.
func WriteExcel(records []application.Record, w io.Writer) error {
	f, err := build(records)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Write(w)
}

func build(records []application.Record) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", applicationsSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(summariesSheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := applicationSheet(f, records); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create applications sheet: %w", err)
	}
	if err := summarySheet(f, records); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create summaries sheet: %w", err)
	}

	return f, nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func applicationSheet(f *excelize.File, records []application.Record) error {
	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	_ = f.SetColWidth(applicationsSheet, "A", "A", 38)
	_ = f.SetColWidth(applicationsSheet, "B", "C", 30)
	_ = f.SetColWidth(applicationsSheet, "D", "D", 22)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(applicationsSheet, cell, h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(applicationsSheet, "A1", "D1", style); err != nil {
		return err
	}

	for i, rec := range records {
		row := i + 2
		values := []any{rec.ID, rec.Name, rec.Email, rec.SubmittedAt.UTC().Format(time.RFC3339)}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(applicationsSheet, cell, v); err != nil {
				return err
			}
		}
	}

	return nil
}

func summarySheet(f *excelize.File, records []application.Record) error {
	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}

	_ = f.SetColWidth(summariesSheet, "A", "A", 38)
	_ = f.SetColWidth(summariesSheet, "B", "B", 80)

	_ = f.SetCellValue(summariesSheet, "A1", "ID")
	_ = f.SetCellValue(summariesSheet, "B1", "Summary")
	if err := f.SetCellStyle(summariesSheet, "A1", "B1", style); err != nil {
		return err
	}

	for i, rec := range records {
		row := i + 2
		_ = f.SetCellValue(summariesSheet, fmt.Sprintf("A%d", row), rec.ID)
		_ = f.SetCellValue(summariesSheet, fmt.Sprintf("B%d", row), rec.Summary)
		if err := f.SetCellStyle(summariesSheet, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), wrap); err != nil {
			return err
		}
	}

	return nil
}
