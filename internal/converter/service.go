// Package converter orchestrates a conversion job end to end: resolve the
// input PDFs, extract and validate their records, aggregate them and write
// the Excel workbook.
package converter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shipdocs/shipdoc/internal/aggregate"
	"github.com/shipdocs/shipdoc/internal/excel"
	"github.com/shipdocs/shipdoc/internal/extract"
	"github.com/shipdocs/shipdoc/internal/logger"
	"github.com/shipdocs/shipdoc/internal/pdf"
)

// Service runs conversion jobs
type Service struct {
	pdf     *pdf.Service
	invoice *extract.InvoiceParser
	packing *extract.PackingListParser
	writer  *excel.Writer
	log     zerolog.Logger
}

// NewService creates a converter service backed by the given PDF service
func NewService(pdfService *pdf.Service) *Service {
	return &Service{
		pdf:     pdfService,
		invoice: extract.NewInvoiceParser(),
		packing: extract.NewPackingListParser(),
		writer:  excel.NewWriter(),
		log:     logger.WithComponent("converter"),
	}
}

// Convert runs one conversion job: inputs are resolved, parsed, aggregated
// and written to a single workbook. Each job gets a fresh ID that tags its
// log lines. The context is checked between stages so a cancelled job stops
// before the next expensive step.
func (s *Service) Convert(ctx context.Context, req ConvertRequest) (*ConvertResult, error) {
	jobID := uuid.NewString()
	log := logger.WithJobID(jobID)
	start := time.Now()

	invoicePaths, packingPaths, err := s.resolveInputs(req)
	if err != nil {
		return nil, err
	}
	log.Info().
		Strs("invoices", invoicePaths).
		Strs("packing_lists", packingPaths).
		Msg("starting conversion")

	var docs []extract.InvoiceDocument
	for _, path := range invoicePaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		parsed, err := s.parseInvoiceFile(path, req.Strict)
		if err != nil {
			return nil, fmt.Errorf("invoice %s: %w", path, err)
		}
		docs = append(docs, parsed...)
	}

	var packingLines []extract.PackingListLine
	for _, path := range packingPaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		parsed, err := s.parsePackingFile(path, req.Strict)
		if err != nil {
			return nil, fmt.Errorf("packing list %s: %w", path, err)
		}
		packingLines = append(packingLines, parsed...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grouped := aggregate.GroupPackingLines(packingLines)

	invoiceLineCount := 0
	for _, doc := range docs {
		invoiceLineCount += len(doc.Items)
	}

	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = deriveOutputPath(firstOf(invoicePaths, packingPaths))
	}

	if err := s.writer.Write(outputPath, excel.WorkbookData{
		Invoices:     docs,
		PackingLines: grouped,
	}); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	elapsed := time.Since(start)
	log.Info().
		Str("output", outputPath).
		Int("invoices", len(docs)).
		Int("invoice_lines", invoiceLineCount).
		Int("packing_lines", len(grouped)).
		Dur("elapsed", elapsed).
		Msg("conversion finished")

	return &ConvertResult{
		JobID:            jobID,
		OutputPath:       outputPath,
		InvoiceFiles:     invoicePaths,
		PackingListFiles: packingPaths,
		InvoiceCount:     len(docs),
		InvoiceLineCount: invoiceLineCount,
		PackingLineCount: len(grouped),
		ElapsedMs:        elapsed.Milliseconds(),
	}, nil
}

// ParseInvoice extracts the flattened invoice lines of a single PDF
func (s *Service) ParseInvoice(ctx context.Context, path string, strict bool) ([]extract.InvoiceLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs, err := s.parseInvoiceFile(path, strict)
	if err != nil {
		return nil, err
	}

	var lines []extract.InvoiceLine
	for _, doc := range docs {
		lines = append(lines, doc.Lines()...)
	}
	return lines, nil
}

// ParsePackingList extracts the grouped packing list lines of a single PDF
func (s *Service) ParsePackingList(ctx context.Context, path string, strict bool) ([]extract.PackingListLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines, err := s.parsePackingFile(path, strict)
	if err != nil {
		return nil, err
	}
	return aggregate.GroupPackingLines(lines), nil
}

// ParseDocument extracts the records of a PDF whose kind is not fixed by a
// CI/PL filename role: the document type is detected from the filename and
// the first page, then the matching grammar runs.
func (s *Service) ParseDocument(ctx context.Context, path string, strict bool) (*ParseDocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pages, err := s.readValidated(path, strict)
	if err != nil {
		return nil, err
	}
	return s.parseDetected(path, pages)
}

// parseDetected classifies the document and dispatches to the matching parser
func (s *Service) parseDetected(path string, pages []pdf.PageLines) (*ParseDocumentResult, error) {
	var firstPage pdf.PageLines
	if len(pages) > 0 {
		firstPage = pages[0]
	}

	result := &ParseDocumentResult{Path: path}

	switch extract.DetectDocumentType(path, firstPage) {
	case extract.DocumentTypePackingList:
		lines, err := s.packing.Parse(pages)
		if err != nil {
			return nil, err
		}
		if err := extract.ValidatePackingListLines(lines); err != nil {
			return nil, err
		}
		result.DocumentType = extract.DocumentTypePackingList
		result.PackingLines = aggregate.GroupPackingLines(lines)

	default:
		docs, err := s.invoice.Parse(pages)
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			lines := doc.Lines()
			if err := extract.ValidateInvoiceLines(lines); err != nil {
				return nil, err
			}
			result.InvoiceLines = append(result.InvoiceLines, lines...)
		}
		result.DocumentType = extract.DocumentTypeInvoice
	}

	s.log.Debug().Str("path", path).
		Str("document_type", string(result.DocumentType)).
		Msg("detected document kind")
	return result, nil
}

// resolveInputs turns a request into concrete input paths. Explicit paths
// are used as given; otherwise the directory is scanned.
func (s *Service) resolveInputs(req ConvertRequest) (invoices, packingLists []string, err error) {
	if req.InvoicePath != "" {
		invoices = append(invoices, req.InvoicePath)
	}
	if req.PackingListPath != "" {
		packingLists = append(packingLists, req.PackingListPath)
	}
	if len(invoices) > 0 || len(packingLists) > 0 {
		return invoices, packingLists, nil
	}

	if req.Directory == "" {
		return nil, nil, ErrNoInput
	}

	found, err := s.pdf.DiscoverInputs(pdf.DiscoverInputsRequest{Directory: req.Directory})
	if err != nil {
		return nil, nil, fmt.Errorf("scan %s: %w", req.Directory, err)
	}
	for _, f := range found.Invoices {
		invoices = append(invoices, f.Path)
	}
	for _, f := range found.PackingLists {
		packingLists = append(packingLists, f.Path)
	}

	if len(invoices) == 0 && len(packingLists) == 0 {
		return nil, nil, fmt.Errorf("%w: nothing matched in %s", ErrNoInput, req.Directory)
	}
	return invoices, packingLists, nil
}

func (s *Service) parseInvoiceFile(path string, strict bool) ([]extract.InvoiceDocument, error) {
	pages, err := s.readValidated(path, strict)
	if err != nil {
		return nil, err
	}

	docs, err := s.invoice.Parse(pages)
	if err != nil {
		return nil, err
	}

	for _, doc := range docs {
		if err := extract.ValidateInvoiceLines(doc.Lines()); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func (s *Service) parsePackingFile(path string, strict bool) ([]extract.PackingListLine, error) {
	pages, err := s.readValidated(path, strict)
	if err != nil {
		return nil, err
	}

	lines, err := s.packing.Parse(pages)
	if err != nil {
		return nil, err
	}

	if err := extract.ValidatePackingListLines(lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Service) readValidated(path string, strict bool) ([]pdf.PageLines, error) {
	validation, err := s.pdf.ValidateFile(pdf.ValidateFileRequest{Path: path, Strict: strict})
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return nil, fmt.Errorf("invalid PDF: %s", validation.Message)
	}

	result, err := s.pdf.ReadLines(pdf.ReadLinesRequest{Path: path})
	if err != nil {
		return nil, err
	}
	return result.Pages, nil
}

func firstOf(a, b []string) string {
	if len(a) > 0 {
		return a[0]
	}
	return b[0]
}
