package converter

import (
	"errors"

	"github.com/shipdocs/shipdoc/internal/extract"
)

// ErrNoInput is returned when neither an invoice nor a packing list PDF
// could be resolved from the request.
var ErrNoInput = errors.New("no invoice or packing list input found")

// ConvertRequest describes one conversion job. Explicit file paths win over
// directory discovery; when both paths are empty the Directory is scanned
// for *CI.pdf and *PL.pdf files.
type ConvertRequest struct {
	InvoicePath     string `json:"invoice_path,omitempty"`
	PackingListPath string `json:"packing_list_path,omitempty"`
	Directory       string `json:"directory,omitempty"`
	OutputPath      string `json:"output_path,omitempty"`
	Strict          bool   `json:"strict,omitempty"`
}

// ConvertResult summarizes a finished conversion job
type ConvertResult struct {
	JobID            string   `json:"job_id"`
	OutputPath       string   `json:"output_path"`
	InvoiceFiles     []string `json:"invoice_files,omitempty"`
	PackingListFiles []string `json:"packing_list_files,omitempty"`
	InvoiceCount     int      `json:"invoice_count"`
	InvoiceLineCount int      `json:"invoice_line_count"`
	PackingLineCount int      `json:"packing_line_count"`
	ElapsedMs        int64    `json:"elapsed_ms"`
}

// ParseDocumentResult carries the records of a single PDF whose kind was
// detected rather than taken from a CI/PL filename role. Exactly one of the
// line slices is populated, matching DocumentType.
type ParseDocumentResult struct {
	Path         string                    `json:"path"`
	DocumentType extract.DocumentType      `json:"document_type"`
	InvoiceLines []extract.InvoiceLine     `json:"invoice_lines,omitempty"`
	PackingLines []extract.PackingListLine `json:"packing_lines,omitempty"`
}
