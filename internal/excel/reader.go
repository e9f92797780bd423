package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/shipdocs/shipdoc/internal/extract"
)

// ReadInvoiceLines reads the invoice data table back from a workbook. It is
// the inverse of the writer for the Invoice sheet and exists so a produced
// workbook can be inspected or verified programmatically.
func ReadInvoiceLines(path string) ([]extract.InvoiceLine, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetInvoice)
	if err != nil {
		return nil, fmt.Errorf("read %s sheet: %w", SheetInvoice, err)
	}

	var lines []extract.InvoiceLine
	for i, row := range rows {
		if i == 0 {
			continue
		}
		// data rows always carry an EAN; summary-only rows do not
		if cellAt(row, 6) == "" {
			continue
		}

		line := extract.InvoiceLine{
			EDI:         cellAt(row, 0),
			DeliveryNo:  cellAt(row, 1),
			InvoiceNo:   cellAt(row, 2),
			InvoiceDate: cellAt(row, 3),
			ShipmentNo:  cellAt(row, 4),
			EanCode:     cellAt(row, 6),
			Ref:         cellAt(row, 7),
			Ref00:       cellAt(row, 8),
			Description: cellAt(row, 9),
			Country:     cellAt(row, 13),
		}

		if v := cellAt(row, 5); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("row %d: total quantity %q: %w", i+1, v, err)
			}
			line.TotalQuantity = &n
		}
		if line.Quantity, err = cellInt(row, 10, i); err != nil {
			return nil, err
		}
		if line.UnitPrice, err = cellFloat(row, 11, i); err != nil {
			return nil, err
		}
		if line.TotalPriceUsd, err = cellFloat(row, 12, i); err != nil {
			return nil, err
		}

		lines = append(lines, line)
	}
	return lines, nil
}

// ReadPackingListLines reads the packing list data table back from a workbook
func ReadPackingListLines(path string) ([]extract.PackingListLine, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetPackingList)
	if err != nil {
		return nil, fmt.Errorf("read %s sheet: %w", SheetPackingList, err)
	}

	var lines []extract.PackingListLine
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if cellAt(row, 4) == "" {
			continue
		}

		line := extract.PackingListLine{
			EDI:         cellAt(row, 0),
			DeliveryNo:  cellAt(row, 1),
			ShipmentNo:  cellAt(row, 2),
			Brand:       cellAt(row, 3),
			EAN:         cellAt(row, 4),
			REF:         cellAt(row, 5),
			REF00:       cellAt(row, 6),
			Description: cellAt(row, 7),
			Batch:       cellAt(row, 9),
			MfgDate:     cellAt(row, 10),
			ExpDate:     cellAt(row, 11),
			Dg:          cellAt(row, 12),
		}

		var err error
		if line.Qty, err = cellInt(row, 8, i); err != nil {
			return nil, err
		}

		lines = append(lines, line)
	}
	return lines, nil
}

func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func cellInt(row []string, col, rowIdx int) (int, error) {
	v := cellAt(row, col)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("row %d col %d: %q is not an integer: %w", rowIdx+1, col+1, v, err)
	}
	return n, nil
}

func cellFloat(row []string, col, rowIdx int) (float64, error) {
	v := cellAt(row, col)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("row %d col %d: %q is not a number: %w", rowIdx+1, col+1, v, err)
	}
	return n, nil
}
