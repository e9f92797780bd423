package extract

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/shipdocs/shipdoc/internal/logger"
	"github.com/shipdocs/shipdoc/internal/pdf"
)

// InvoiceParser extracts invoice documents from the text lines of a
// commercial invoice PDF.
type InvoiceParser struct {
	log zerolog.Logger
}

// NewInvoiceParser creates a new invoice parser
func NewInvoiceParser() *InvoiceParser {
	return &InvoiceParser{
		log: logger.WithComponent("extract.invoice"),
	}
}

// Parse walks the document page by page. Header metadata and items
// accumulate into the current invoice; a terms-of-sale page closes it, so a
// single PDF can yield several invoice documents. Returns ErrNoRecords when
// no invoice was found.
func (p *InvoiceParser) Parse(pages []pdf.PageLines) ([]InvoiceDocument, error) {
	var documents []InvoiceDocument
	current := InvoiceDocument{}

	for _, page := range pages {
		if len(page.Lines) == 0 {
			p.log.Warn().Int("page", page.Number).Msg("no text found on page")
			continue
		}

		if isTermsOfSalePage(page.Lines) {
			if current.InvoiceNo != "" {
				documents = append(documents, current)
				p.log.Debug().Str("invoice_no", current.InvoiceNo).
					Int("items", len(current.Items)).
					Msg("finished invoice")
			}
			current = InvoiceDocument{}
			continue
		}

		p.collectMetadata(&current, page.Lines)
		p.collectItems(&current, page.Lines)
	}

	if current.InvoiceNo != "" {
		documents = append(documents, current)
	}

	if len(documents) == 0 {
		return nil, ErrNoRecords
	}
	return documents, nil
}

func isTermsOfSalePage(lines []string) bool {
	for _, line := range lines {
		if strings.Contains(line, termsOfSaleMarker) {
			return true
		}
	}
	return false
}

// collectMetadata fills header fields from labelled lines. Fields already
// set on the current invoice are kept; later pages of the same invoice
// repeat the header.
func (p *InvoiceParser) collectMetadata(doc *InvoiceDocument, lines []string) {
	for _, line := range lines {
		if doc.EDI == "" {
			if m := invEDI.FindStringSubmatch(line); m != nil {
				doc.EDI = m[1]
			}
		}
		if doc.DeliveryNo == "" {
			if m := invDeliveryNo.FindStringSubmatch(line); m != nil {
				doc.DeliveryNo = m[1]
			}
		}
		if doc.InvoiceNo == "" {
			if m := invInvoiceNo.FindStringSubmatch(line); m != nil {
				doc.InvoiceNo = m[1]
				// The printed header puts the date on the invoice-number
				// row; take it from there when no labelled date appears.
				if doc.InvoiceDate == "" {
					if d := invBareDate.FindStringSubmatch(line); d != nil {
						doc.InvoiceDate = d[1]
					}
				}
			}
		}
		if doc.InvoiceDate == "" {
			if m := invDate.FindStringSubmatch(line); m != nil {
				doc.InvoiceDate = m[1]
			}
		}
		if doc.ShipmentNo == "" {
			if m := invShipmentNo.FindStringSubmatch(line); m != nil {
				doc.ShipmentNo = m[1]
			}
		}
		if doc.TotalQuantity == nil {
			if m := invTotalQty.FindStringSubmatch(line); m != nil {
				if qty, err := parseQuantity(m[1]); err == nil {
					doc.TotalQuantity = &qty
				}
			}
		}
	}
}

// collectItems extracts item rows, keyed by EAN within one invoice: a
// duplicate EAN on a later page replaces the earlier row in place.
func (p *InvoiceParser) collectItems(doc *InvoiceDocument, lines []string) {
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if !invEANLine.MatchString(line) {
			continue
		}

		item, ok := p.parseItemLine(line)
		if !ok {
			continue
		}

		replaced := false
		for i := range doc.Items {
			if doc.Items[i].EanCode == item.EanCode {
				doc.Items[i] = item
				replaced = true
				break
			}
		}
		if !replaced {
			doc.Items = append(doc.Items, item)
		}
	}
}

// parseItemLine applies the two-step item grammar to a single line
func (p *InvoiceParser) parseItemLine(line string) (InvoiceItem, bool) {
	m1 := invItemStep1.FindStringSubmatch(line)
	if m1 == nil {
		return InvoiceItem{}, false
	}

	m2 := invItemStep2.FindStringSubmatch(line)
	if m2 == nil {
		p.log.Debug().Str("line", line).Msg("item line failed second-step match")
		return InvoiceItem{}, false
	}

	quantity, err := parseQuantity(m2[1])
	if err != nil {
		return InvoiceItem{}, false
	}
	unitPrice, err := parsePrice(m2[2])
	if err != nil {
		return InvoiceItem{}, false
	}
	totalPrice, err := parsePrice(m2[3])
	if err != nil {
		return InvoiceItem{}, false
	}

	return InvoiceItem{
		EanCode:       m1[1],
		Description:   strings.TrimSpace(m1[2]),
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		TotalPriceUsd: totalPrice,
		Country:       m2[5],
		Ref:           m2[6],
	}, true
}
