// Package excel serializes extracted shipping-document records into an
// Excel workbook: one sheet per document kind, each with its data table and
// an aggregation table alongside.
package excel

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/shipdocs/shipdoc/internal/aggregate"
	"github.com/shipdocs/shipdoc/internal/extract"
	"github.com/shipdocs/shipdoc/internal/logger"
)

const (
	// SheetInvoice holds the flattened invoice rows
	SheetInvoice = "Invoice"
	// SheetPackingList holds the grouped packing list rows
	SheetPackingList = "Packing_List"

	// Column where each aggregation table starts (Q for invoices, O for
	// packing lists), leaving a gap after the data columns.
	invoiceSummaryStartCol = 17
	packingSummaryStartCol = 15

	defaultColWidth = 15
)

// ErrNoData is returned when a workbook is requested with no records at all.
var ErrNoData = errors.New("no invoice or packing list data to write")

var invoiceHeaders = []string{
	"EDI", "DeliveryNo", "InvoiceNo", "InvoiceDate",
	"ShipmentNo", "TotalQuantity",
	"EAN", "Ref", "Ref00", "Description", "Quantity", "UnitPrice",
	"TotalPriceUsd", "Country",
}

var packingHeaders = []string{
	"EDI", "DeliveryNo", "ShipmentNo", "Brand", "EAN", "REF", "REF_00",
	"Description", "Qty", "Batch", "MfgDate", "ExpDate", "Dg",
}

var invoiceSummaryHeaders = []string{"ShipmentNo", "InvoiceNo", "InvoiceDate", "TotalQuantity", "TotalPriceUsd"}

var packingSummaryHeaders = []string{"ShipmentNo", "TotalQty"}

// WorkbookData carries the records of one conversion run
type WorkbookData struct {
	Invoices     []extract.InvoiceDocument
	PackingLines []extract.PackingListLine
}

// Writer builds xlsx workbooks from extracted records
type Writer struct {
	log zerolog.Logger
}

// NewWriter creates a new workbook writer
func NewWriter() *Writer {
	return &Writer{
		log: logger.WithComponent("excel.writer"),
	}
}

// Write builds the workbook and saves it to path
func (w *Writer) Write(path string, data WorkbookData) error {
	f, err := w.Workbook(data)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	w.log.Info().Str("path", path).
		Int("invoices", len(data.Invoices)).
		Int("packing_lines", len(data.PackingLines)).
		Msg("workbook written")
	return nil
}

// Workbook builds the in-memory workbook for the given records
func (w *Writer) Workbook(data WorkbookData) (*excelize.File, error) {
	if len(data.Invoices) == 0 && len(data.PackingLines) == 0 {
		return nil, ErrNoData
	}

	f := excelize.NewFile()
	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	if len(data.Invoices) > 0 {
		if err := w.writeInvoiceSheet(f, styles, data.Invoices); err != nil {
			return nil, fmt.Errorf("invoice sheet: %w", err)
		}
	}

	if len(data.PackingLines) > 0 {
		if err := w.writePackingListSheet(f, styles, data.PackingLines); err != nil {
			return nil, fmt.Errorf("packing list sheet: %w", err)
		}
	}

	// Drop the default sheet created by excelize
	defaultSheet := f.GetSheetName(0)
	if err := f.DeleteSheet(defaultSheet); err != nil {
		w.log.Warn().Err(err).Str("sheet", defaultSheet).Msg("could not remove default sheet")
	} else {
		f.SetActiveSheet(0)
	}

	return f, nil
}

// sheetStyles holds the cell styles shared by both sheets
type sheetStyles struct {
	header        int // bold on grey
	summaryHeader int // bold on yellow
	total         int // bold on grey, grand-total row
}

func newSheetStyles(f *excelize.File) (*sheetStyles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"CCCCCC"}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	summaryHeader, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFFF99"}},
	})
	if err != nil {
		return nil, fmt.Errorf("summary header style: %w", err)
	}

	return &sheetStyles{
		header:        header,
		summaryHeader: summaryHeader,
		total:         header,
	}, nil
}

func (w *Writer) writeInvoiceSheet(f *excelize.File, styles *sheetStyles, docs []extract.InvoiceDocument) error {
	if _, err := f.NewSheet(SheetInvoice); err != nil {
		return err
	}

	if err := writeHeaderRow(f, SheetInvoice, 1, invoiceHeaders, styles.header); err != nil {
		return err
	}

	row := 2
	for _, doc := range docs {
		for _, line := range doc.Lines() {
			values := []any{
				line.EDI,
				line.DeliveryNo,
				line.InvoiceNo,
				line.InvoiceDate,
				line.ShipmentNo,
				optionalInt(line.TotalQuantity),
				numericEAN(line.EanCode),
				line.Ref,
				line.Ref00,
				line.Description,
				line.Quantity,
				line.UnitPrice,
				line.TotalPriceUsd,
				line.Country,
			}
			if err := writeRow(f, SheetInvoice, row, 1, values); err != nil {
				return err
			}
			row++
		}
	}

	if err := w.writeInvoiceSummary(f, styles, docs); err != nil {
		return err
	}

	return setColumnWidths(f, SheetInvoice, 1, invoiceSummaryStartCol+len(invoiceSummaryHeaders)-1)
}

func (w *Writer) writeInvoiceSummary(f *excelize.File, styles *sheetStyles, docs []extract.InvoiceDocument) error {
	rows, totals := aggregate.SummarizeInvoices(docs)

	if err := writeHeaderRow(f, SheetInvoice, 1, invoiceSummaryHeaders, styles.summaryHeader, invoiceSummaryStartCol); err != nil {
		return err
	}

	row := 2
	for _, r := range rows {
		values := []any{r.ShipmentNo, r.InvoiceNo, r.InvoiceDate, r.TotalQuantity, r.TotalPriceUsd}
		if err := writeRow(f, SheetInvoice, row, invoiceSummaryStartCol, values); err != nil {
			return err
		}
		row++
	}

	totalValues := []any{"Total", "", "", totals.Quantity, totals.PriceUsd}
	if err := writeRow(f, SheetInvoice, row, invoiceSummaryStartCol, totalValues); err != nil {
		return err
	}
	return styleCells(f, SheetInvoice, row, invoiceSummaryStartCol, len(totalValues), styles.total)
}

func (w *Writer) writePackingListSheet(f *excelize.File, styles *sheetStyles, lines []extract.PackingListLine) error {
	if _, err := f.NewSheet(SheetPackingList); err != nil {
		return err
	}

	if err := writeHeaderRow(f, SheetPackingList, 1, packingHeaders, styles.header); err != nil {
		return err
	}

	for i, line := range lines {
		values := []any{
			line.EDI,
			line.DeliveryNo,
			line.ShipmentNo,
			line.Brand,
			numericEAN(line.EAN),
			line.REF,
			line.REF00,
			line.Description,
			line.Qty,
			line.Batch,
			line.MfgDate,
			line.ExpDate,
			line.Dg,
		}
		if err := writeRow(f, SheetPackingList, i+2, 1, values); err != nil {
			return err
		}
	}

	if err := w.writePackingSummary(f, styles, lines); err != nil {
		return err
	}

	return setColumnWidths(f, SheetPackingList, 1, packingSummaryStartCol+len(packingSummaryHeaders)-1)
}

func (w *Writer) writePackingSummary(f *excelize.File, styles *sheetStyles, lines []extract.PackingListLine) error {
	rows, total := aggregate.SummarizePackingLines(lines)

	if err := writeHeaderRow(f, SheetPackingList, 1, packingSummaryHeaders, styles.summaryHeader, packingSummaryStartCol); err != nil {
		return err
	}

	row := 2
	for _, r := range rows {
		if err := writeRow(f, SheetPackingList, row, packingSummaryStartCol, []any{r.ShipmentNo, r.TotalQty}); err != nil {
			return err
		}
		row++
	}

	if err := writeRow(f, SheetPackingList, row, packingSummaryStartCol, []any{"Total", total}); err != nil {
		return err
	}
	return styleCells(f, SheetPackingList, row, packingSummaryStartCol, len(packingSummaryHeaders), styles.total)
}

// writeHeaderRow writes and styles one header row, optionally offset to a
// start column for the aggregation tables
func writeHeaderRow(f *excelize.File, sheet string, row int, headers []string, styleID int, startCol ...int) error {
	col := 1
	if len(startCol) > 0 {
		col = startCol[0]
	}
	if err := writeRow(f, sheet, row, col, toAnySlice(headers)); err != nil {
		return err
	}
	return styleCells(f, sheet, row, col, len(headers), styleID)
}

func writeRow(f *excelize.File, sheet string, row, startCol int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(startCol+i, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func styleCells(f *excelize.File, sheet string, row, startCol, count int, styleID int) error {
	first, err := excelize.CoordinatesToCellName(startCol, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(startCol+count-1, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, styleID)
}

func setColumnWidths(f *excelize.File, sheet string, firstCol, lastCol int) error {
	first, err := excelize.ColumnNumberToName(firstCol)
	if err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(lastCol)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, first, last, defaultColWidth)
}

// numericEAN writes EANs as numbers when possible, matching the source tool
func numericEAN(ean string) any {
	if n, err := strconv.ParseInt(ean, 10, 64); err == nil {
		return n
	}
	return ean
}

// optionalInt renders a missing quantity as an empty cell
func optionalInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
