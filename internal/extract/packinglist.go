package extract

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/shipdocs/shipdoc/internal/logger"
	"github.com/shipdocs/shipdoc/internal/pdf"
)

// PackingListParser extracts packing list lines from the text lines of a
// packing list PDF.
type PackingListParser struct {
	log zerolog.Logger
}

// NewPackingListParser creates a new packing list parser
func NewPackingListParser() *PackingListParser {
	return &PackingListParser{
		log: logger.WithComponent("extract.packinglist"),
	}
}

// Parse extracts every item row, applying the page-level metadata (EDI,
// order number, ship group) to each row found on that page. Rows are
// returned in document order, ungrouped; merging duplicate EAN+Batch rows
// is the aggregator's job. Returns ErrNoRecords when nothing matched.
func (p *PackingListParser) Parse(pages []pdf.PageLines) ([]PackingListLine, error) {
	var all []PackingListLine

	for _, page := range pages {
		if len(page.Lines) == 0 {
			p.log.Warn().Int("page", page.Number).Msg("no text found on page")
			continue
		}

		meta := p.extractPageMetadata(page.Lines)
		items := p.extractItems(page.Lines)

		for i := range items {
			items[i].EDI = meta.edi
			items[i].DeliveryNo = CleanPackingDeliveryNo(meta.orderNo)
			items[i].ShipmentNo = CleanPackingShipmentNo(meta.shipmentNo)
		}

		all = append(all, items...)
	}

	if len(all) == 0 {
		return nil, ErrNoRecords
	}
	return all, nil
}

type pageMetadata struct {
	edi        string
	orderNo    string
	shipmentNo string
}

// extractPageMetadata pulls the shared header values of one page
func (p *PackingListParser) extractPageMetadata(lines []string) pageMetadata {
	var meta pageMetadata
	for _, line := range lines {
		if meta.edi == "" {
			if m := plEDI.FindStringSubmatch(line); m != nil {
				meta.edi = m[1]
			}
		}
		if meta.orderNo == "" {
			if m := plOrderNo.FindStringSubmatch(line); m != nil {
				meta.orderNo = m[1]
			}
		}
		if meta.shipmentNo == "" {
			if m := plShipmentNo.FindStringSubmatch(line); m != nil {
				meta.shipmentNo = m[1]
			}
		}
	}
	return meta
}

// extractItems matches item rows line by line; when the strict pattern
// finds nothing on the page the flexible pattern is run over the whole page
// text, tolerating a line break before the dangerous-goods flag.
func (p *PackingListParser) extractItems(lines []string) []PackingListLine {
	var items []PackingListLine

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if m := plItemLine.FindStringSubmatch(line); m != nil {
			if item, ok := p.lineFromMatch(m); ok {
				items = append(items, item)
			}
		}
	}

	if len(items) == 0 {
		pageText := strings.Join(lines, "\n")
		for _, m := range plItemLineFlexible.FindAllStringSubmatch(pageText, -1) {
			if item, ok := p.lineFromMatch(m); ok {
				items = append(items, item)
				p.log.Debug().Str("ean", item.EAN).Msg("item matched by flexible pattern")
			}
		}
	}

	return items
}

// lineFromMatch builds a packing list line from a grammar match
func (p *PackingListParser) lineFromMatch(m []string) (PackingListLine, bool) {
	// m: hs_code, brand, sku, description, qty, ean, batch, mfg, exp, coo, dg
	qty, err := parseQuantity(m[5])
	if err != nil {
		return PackingListLine{}, false
	}

	sku := m[3]
	return PackingListLine{
		Brand:       m[2],
		EAN:         m[6],
		REF:         sku,
		REF00:       DeriveRef00(sku),
		Description: strings.TrimSpace(m[4]),
		Qty:         qty,
		Batch:       m[7],
		MfgDate:     NormalizeDashedDate(m[8]),
		ExpDate:     NormalizeDashedDate(m[9]),
		Dg:          m[11],
	}, true
}
