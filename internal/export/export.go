// Package export writes a displayed bill summary, or a range of bills, to
// XLSX or PDF.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/lachiem1/meterUp/internal/lookup"
)

const title = "Electricity Bill Summary"

var (
	// ErrNothingToExport is returned for a view without a visible summary.
	ErrNothingToExport = errors.New("no bill summary to export")
	// ErrUnsupportedFormat is returned by Write for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// PDF renders the summary table of view.
func PDF(view lookup.View) ([]byte, error) {
	if !view.SummaryVisible {
		return nil, ErrNothingToExport
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, title)
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s", view.PeriodLabel))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 6, "Field", "1", 0, "C", false, 0, "")
	pdf.CellFormat(90, 6, "Value", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	for _, row := range view.Rows {
		style := ""
		if row.Emphasis {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(60, 6, row.Field, "1", 0, "L", false, 0, "")
		pdf.CellFormat(90, 6, row.Value, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// XLSX renders the summary table of view on a single sheet.
func XLSX(view lookup.View) ([]byte, error) {
	if !view.SummaryVisible {
		return nil, ErrNothingToExport
	}
	f := excelize.NewFile()
	defer f.Close()
	sheet := "summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	_ = f.SetCellValue(sheet, "A1", title)
	_ = f.SetCellValue(sheet, "A2", "Period")
	_ = f.SetCellValue(sheet, "B2", view.PeriodLabel)
	_ = f.SetCellValue(sheet, "A4", "Field")
	_ = f.SetCellValue(sheet, "B4", "Value")
	for i, row := range view.Rows {
		r := i + 5
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.Field)
		// Values stay text so they match what the API returned.
		_ = f.SetCellStr(sheet, fmt.Sprintf("B%d", r), row.Value)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// Write renders view in the format implied by path's extension and writes it.
func Write(path string, view lookup.View) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		data, err = XLSX(view)
	case ".pdf":
		data, err = PDF(view)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
