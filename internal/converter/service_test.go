package converter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipdocs/shipdoc/internal/extract"
	"github.com/shipdocs/shipdoc/internal/pdf"
)

const testMaxFileSize = 10 * 1024 * 1024

func newTestService() *Service {
	return NewService(pdf.NewService(testMaxFileSize))
}

func TestConvertNoInput(t *testing.T) {
	s := newTestService()

	_, err := s.Convert(context.Background(), ConvertRequest{})
	require.ErrorIs(t, err, ErrNoInput)
}

func TestConvertEmptyDirectory(t *testing.T) {
	s := newTestService()

	_, err := s.Convert(context.Background(), ConvertRequest{Directory: t.TempDir()})
	require.ErrorIs(t, err, ErrNoInput)
}

func TestConvertDirectoryWithUnrelatedFiles(t *testing.T) {
	s := newTestService()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.pdf"), []byte("%PDF-1.4"), 0o600))

	_, err := s.Convert(context.Background(), ConvertRequest{Directory: dir})
	require.ErrorIs(t, err, ErrNoInput)
}

func TestConvertCancelledContext(t *testing.T) {
	s := newTestService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Convert(ctx, ConvertRequest{InvoicePath: "/data/in CI.pdf"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestConvertInvalidInvoiceFile(t *testing.T) {
	s := newTestService()
	dir := t.TempDir()

	// not a PDF at all
	path := filepath.Join(dir, "Shipment CI.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o600))

	_, err := s.Convert(context.Background(), ConvertRequest{InvoicePath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestParseInvoiceCancelledContext(t *testing.T) {
	s := newTestService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ParseInvoice(ctx, "/data/in CI.pdf", false)
	require.ErrorIs(t, err, context.Canceled)
}

func TestParsePackingListCancelledContext(t *testing.T) {
	s := newTestService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ParsePackingList(ctx, "/data/in PL.pdf", false)
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseDocumentCancelledContext(t *testing.T) {
	s := newTestService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ParseDocument(ctx, "/data/document.pdf", false)
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseDetectedInvoice(t *testing.T) {
	s := newTestService()

	pages := []pdf.PageLines{
		{Number: 1, Lines: []string{
			"COMMERCIAL INVOICE",
			"Your Reference : A1B2C3D4",
			"Delivery Note : 80123456",
			"Invoice Number : 9876543 02.01.2024",
			"Shipment Number: 0000123456",
			"4716658123457 REVITALIFT LASER X3 50ML 12,50 G 48 10.50 504.00 123456 FR A12345-BC67",
		}},
	}

	// filename carries no CI/PL role; content keywords decide
	result, err := s.parseDetected("/data/document.pdf", pages)
	require.NoError(t, err)
	assert.Equal(t, extract.DocumentTypeInvoice, result.DocumentType)
	require.Len(t, result.InvoiceLines, 1)
	assert.Empty(t, result.PackingLines)
	assert.Equal(t, "4716658123457", result.InvoiceLines[0].EanCode)
	assert.Equal(t, "9876543", result.InvoiceLines[0].InvoiceNo)
}

func TestParseDetectedPackingList(t *testing.T) {
	s := newTestService()

	pages := []pdf.PageLines{
		{Number: 1, Lines: []string{
			"PACKING LIST",
			"SHIPPER",
			"CONSIGNEE",
			"GROSS WEIGHT",
			"Your Reference A1B2C3D4",
			"Order Number : 0012345678",
			"Ship Group ID : 0000765432",
			"33049900 LRP B12345 EFFACLAR DUO 40ML 504 3337875598071 23K401 01-09-2023 01-09-2026 FR N",
			"33049900 LRP B12345 EFFACLAR DUO 40ML 504 3337875598071 23K401 01-09-2023 01-09-2026 FR N",
		}},
	}

	result, err := s.parseDetected("/data/document.pdf", pages)
	require.NoError(t, err)
	assert.Equal(t, extract.DocumentTypePackingList, result.DocumentType)
	assert.Empty(t, result.InvoiceLines)

	// duplicate EAN+batch rows come back grouped
	require.Len(t, result.PackingLines, 1)
	assert.Equal(t, 1008, result.PackingLines[0].Qty)
	assert.Equal(t, "765432", result.PackingLines[0].ShipmentNo)
}

func TestParseDetectedFilenameWins(t *testing.T) {
	s := newTestService()

	// packing list keywords in the content, but the filename names an
	// invoice; the filename takes precedence
	pages := []pdf.PageLines{
		{Number: 1, Lines: []string{
			"PACKING LIST", "SHIPPER", "CONSIGNEE",
		}},
	}

	_, err := s.parseDetected("/data/Shipment 42 CI.pdf", pages)
	require.ErrorIs(t, err, extract.ErrNoRecords)
}

func TestResolveInputsExplicitPathsWin(t *testing.T) {
	s := newTestService()

	invoices, packingLists, err := s.resolveInputs(ConvertRequest{
		InvoicePath:     "/data/a CI.pdf",
		PackingListPath: "/data/a PL.pdf",
		Directory:       "/ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/a CI.pdf"}, invoices)
	assert.Equal(t, []string{"/data/a PL.pdf"}, packingLists)
}

func TestResolveInputsSingleExplicitPath(t *testing.T) {
	s := newTestService()

	invoices, packingLists, err := s.resolveInputs(ConvertRequest{
		PackingListPath: "/data/a PL.pdf",
	})
	require.NoError(t, err)
	assert.Empty(t, invoices)
	assert.Equal(t, []string{"/data/a PL.pdf"}, packingLists)
}

func TestResolveInputsDirectoryScan(t *testing.T) {
	s := newTestService()
	dir := t.TempDir()

	ci := filepath.Join(dir, "Shipment 42 CI.pdf")
	pl := filepath.Join(dir, "Shipment 42 PL.pdf")
	require.NoError(t, os.WriteFile(ci, []byte("%PDF-1.4\n%%EOF\n"), 0o600))
	require.NoError(t, os.WriteFile(pl, []byte("%PDF-1.4\n%%EOF\n"), 0o600))

	invoices, packingLists, err := s.resolveInputs(ConvertRequest{Directory: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{ci}, invoices)
	assert.Equal(t, []string{pl}, packingLists)
}

func TestDeriveOutputPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "space separated CI suffix",
			input: "/data/Shipment 42 CI.pdf",
			want:  "/data/Shipment 42_parsed_data.xlsx",
		},
		{
			name:  "space separated PL suffix",
			input: "/data/Shipment 42 PL.pdf",
			want:  "/data/Shipment 42_parsed_data.xlsx",
		},
		{
			name:  "underscore separated suffix",
			input: "/data/shipment_42_ci.pdf",
			want:  "/data/shipment_42_parsed_data.xlsx",
		},
		{
			name:  "lowercase suffix",
			input: "/data/shipment 42 pl.pdf",
			want:  "/data/shipment 42_parsed_data.xlsx",
		},
		{
			name:  "no recognised suffix",
			input: "/data/document.pdf",
			want:  "/data/document_parsed_data.xlsx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveOutputPath(tt.input))
		})
	}
}
