package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("%PDF-1.4\n%%EOF\n"), 0o600); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

func TestSearch_DiscoverInputs(t *testing.T) {
	search := NewSearch(1024 * 1024)

	tempDir := t.TempDir()
	writeTestFile(t, tempDir, "SHIP01 CI.pdf")
	writeTestFile(t, tempDir, "SHIP01 PL.pdf")
	writeTestFile(t, tempDir, "SHIP02 CI.PDF")
	writeTestFile(t, tempDir, "unrelated.pdf")
	writeTestFile(t, tempDir, "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(tempDir, "sub CI.pdf"), 0o750))

	result, err := search.DiscoverInputs(DiscoverInputsRequest{Directory: tempDir})
	require.NoError(t, err)

	require.Len(t, result.Invoices, 2)
	assert.Equal(t, "SHIP01 CI.pdf", result.Invoices[0].Name)
	assert.Equal(t, "SHIP02 CI.PDF", result.Invoices[1].Name)

	require.Len(t, result.PackingLists, 1)
	assert.Equal(t, "SHIP01 PL.pdf", result.PackingLists[0].Name)

	assert.Equal(t, tempDir, result.Directory)
}

func TestSearch_DiscoverInputs_Errors(t *testing.T) {
	search := NewSearch(1024 * 1024)

	_, err := search.DiscoverInputs(DiscoverInputsRequest{Directory: ""})
	assert.Error(t, err)

	_, err = search.DiscoverInputs(DiscoverInputsRequest{Directory: "/non/existent/dir"})
	assert.Error(t, err)
}

func TestSearch_DiscoverInputs_EmptyDirectory(t *testing.T) {
	search := NewSearch(1024 * 1024)

	result, err := search.DiscoverInputs(DiscoverInputsRequest{Directory: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, result.Invoices)
	assert.Empty(t, result.PackingLists)
}

func TestFileNameConventions(t *testing.T) {
	tests := []struct {
		name        string
		invoice     bool
		packingList bool
	}{
		{name: "SHIP01 CI.pdf", invoice: true},
		{name: "SHIP01 CI.PDF", invoice: true},
		{name: "SHIP01 PL.pdf", packingList: true},
		{name: "SHIPMENT_PL.pdf", packingList: true},
		{name: "invoice.pdf"},
		{name: "CI.txt"},
		// the marker is case-sensitive: ordinary words ending in those
		// letters are not shipping documents
		{name: "davinci.pdf"},
		{name: "shipment pl.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.invoice, IsInvoiceFileName(tt.name))
			assert.Equal(t, tt.packingList, IsPackingListFileName(tt.name))
		})
	}
}
