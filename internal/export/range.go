package export

import (
	"bytes"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/lachiem1/meterUp/internal/billing"
	"github.com/lachiem1/meterUp/internal/lookup"
)

// RangeXLSX renders one row per month with the found bills' totals.
func RangeXLSX(items []lookup.RangeItem, total decimal.Decimal) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "bills"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"Period", "Identifier", "Status", "Due Date", "Total Usage (kWh)", "Total Amount"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, item := range items {
		r := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), item.Period.Key())
		_ = f.SetCellStr(sheet, fmt.Sprintf("B%d", r), item.Identifier)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", r), item.Result.Outcome.String())
		if item.Result.Outcome != billing.OutcomeFound {
			continue
		}
		rec := item.Result.Record
		_ = f.SetCellStr(sheet, fmt.Sprintf("D%d", r), rec.DueDate.String())
		_ = f.SetCellStr(sheet, fmt.Sprintf("E%d", r), rec.TotalKWh.String())
		_ = f.SetCellStr(sheet, fmt.Sprintf("F%d", r), rec.TotalAmount.String())
	}
	last := len(items) + 3
	_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", last), "Sum")
	_ = f.SetCellStr(sheet, fmt.Sprintf("F%d", last), total.StringFixed(2))

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteRange writes RangeXLSX output to path.
func WriteRange(path string, items []lookup.RangeItem, total decimal.Decimal) error {
	data, err := RangeXLSX(items, total)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
