package exports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Variants"

// WriteXLSX writes one sheet with a bold header, one line per row and a
// summary line carrying the variant count and total stock.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	boldStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, boldStyle); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &[]any{
			r.Group, r.Name, r.SKU, r.Options, r.MRP, r.OfferPrice, r.CostPrice,
			r.StockStatus, r.StockQuantity, r.Images, r.Description,
		}); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	summaryRow := len(rows) + 2
	summaryStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for _, c := range []struct {
		col   string
		value any
	}{
		{"A", "Total"},
		{"B", fmt.Sprintf("%d variants", len(rows))},
		{"I", totalStock(rows)},
	} {
		if err := f.SetCellValue(sheetName, fmt.Sprintf("%s%d", c.col, summaryRow), c.value); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("K%d", summaryRow), summaryStyle); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}

	colWidths := []float64{14, 28, 20, 30, 10, 10, 10, 12, 8, 40, 30}
	for i, wd := range colWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, col, col, wd); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	_, err = f.WriteTo(w)
	return err
}
