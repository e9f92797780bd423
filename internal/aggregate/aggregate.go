// Package aggregate computes the per-sheet summary tables and the
// packing-list grouping applied before the workbook is written.
package aggregate

import (
	"github.com/shipdocs/shipdoc/internal/extract"
)

// InvoiceSummaryRow is one row of the invoice aggregation table: totals for
// a single invoice document.
type InvoiceSummaryRow struct {
	ShipmentNo    string  `json:"shipment_no"`
	InvoiceNo     string  `json:"invoice_no"`
	InvoiceDate   string  `json:"invoice_date"`
	TotalQuantity int     `json:"total_quantity"`
	TotalPriceUsd float64 `json:"total_price_usd"`
}

// InvoiceTotals holds the grand-total row of the invoice aggregation table
type InvoiceTotals struct {
	Quantity int     `json:"quantity"`
	PriceUsd float64 `json:"price_usd"`
}

// SummarizeInvoices produces one summary row per invoice document.
// Quantities are summed from the item rows rather than taken from the
// printed TOTAL QUANTITY metadata.
func SummarizeInvoices(docs []extract.InvoiceDocument) ([]InvoiceSummaryRow, InvoiceTotals) {
	rows := make([]InvoiceSummaryRow, 0, len(docs))
	var totals InvoiceTotals

	for _, doc := range docs {
		row := InvoiceSummaryRow{
			ShipmentNo:  extract.CleanInvoiceShipmentNo(doc.ShipmentNo),
			InvoiceNo:   doc.InvoiceNo,
			InvoiceDate: extract.NormalizeDottedDate(doc.InvoiceDate),
		}
		for _, item := range doc.Items {
			row.TotalQuantity += item.Quantity
			row.TotalPriceUsd += item.TotalPriceUsd
		}

		totals.Quantity += row.TotalQuantity
		totals.PriceUsd += row.TotalPriceUsd
		rows = append(rows, row)
	}

	return rows, totals
}

// PackingSummaryRow is one row of the packing list aggregation table:
// the total quantity shipped under one ship group.
type PackingSummaryRow struct {
	ShipmentNo string `json:"shipment_no"`
	TotalQty   int    `json:"total_qty"`
}

// SummarizePackingLines groups packing list lines by shipment number in
// first-seen order. Lines without a shipment number are not counted,
// matching the source tool.
func SummarizePackingLines(lines []extract.PackingListLine) ([]PackingSummaryRow, int) {
	index := make(map[string]int)
	var rows []PackingSummaryRow
	total := 0

	for _, line := range lines {
		if line.ShipmentNo == "" {
			continue
		}
		i, ok := index[line.ShipmentNo]
		if !ok {
			i = len(rows)
			index[line.ShipmentNo] = i
			rows = append(rows, PackingSummaryRow{ShipmentNo: line.ShipmentNo})
		}
		rows[i].TotalQty += line.Qty
		total += line.Qty
	}

	return rows, total
}

// GroupPackingLines merges lines with identical EAN and batch, summing
// their quantities. The first occurrence keeps its other fields and its
// position in the output.
func GroupPackingLines(lines []extract.PackingListLine) []extract.PackingListLine {
	type key struct {
		ean   string
		batch string
	}

	index := make(map[key]int)
	var grouped []extract.PackingListLine

	for _, line := range lines {
		k := key{ean: line.EAN, batch: line.Batch}
		if i, ok := index[k]; ok {
			grouped[i].Qty += line.Qty
			continue
		}
		index[k] = len(grouped)
		grouped = append(grouped, line)
	}

	return grouped
}
