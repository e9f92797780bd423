package extract

import (
	"path/filepath"
	"strings"

	"github.com/shipdocs/shipdoc/internal/pdf"
)

// DocumentType identifies the kind of shipping document being parsed
type DocumentType string

const (
	DocumentTypeInvoice     DocumentType = "invoice"
	DocumentTypePackingList DocumentType = "packing_list"
	DocumentTypeAuto        DocumentType = "auto"
)

var invoiceNameKeywords = []string{"invoice", "ci", "commercial"}

var packingNameKeywords = []string{"packing", "pl", "pack"}

var invoiceContentKeywords = []string{
	"COMMERCIAL INVOICE", "INVOICE", "BILL TO", "SHIP TO",
	"INVOICE NUMBER", "INVOICE DATE", "EAN", "UNIT PRICE",
}

var packingContentKeywords = []string{
	"PACKING LIST", "PACKING", "SHIPPER", "CONSIGNEE",
	"VESSEL", "VOYAGE", "PORT OF LOADING", "GROSS WEIGHT",
}

// DetectDocumentType guesses the document kind from the filename, falling
// back to keyword scoring over the first page. Invoice wins ties and is the
// default when nothing matches.
func DetectDocumentType(path string, firstPage pdf.PageLines) DocumentType {
	filename := strings.ToLower(filepath.Base(path))

	for _, keyword := range invoiceNameKeywords {
		if strings.Contains(filename, keyword) {
			return DocumentTypeInvoice
		}
	}
	for _, keyword := range packingNameKeywords {
		if strings.Contains(filename, keyword) {
			return DocumentTypePackingList
		}
	}

	pageText := strings.ToUpper(strings.Join(firstPage.Lines, "\n"))

	invoiceScore := 0
	for _, keyword := range invoiceContentKeywords {
		if strings.Contains(pageText, keyword) {
			invoiceScore++
		}
	}

	packingScore := 0
	for _, keyword := range packingContentKeywords {
		if strings.Contains(pageText, keyword) {
			packingScore++
		}
	}

	if packingScore > invoiceScore {
		return DocumentTypePackingList
	}
	return DocumentTypeInvoice
}
