package extract

import "regexp"

// Invoice grammar. Item rows are matched in two steps over the same line:
// both must succeed or the line is skipped.
var (
	// EAN + description + weight + G
	invItemStep1 = regexp.MustCompile(`^(\d{13})\s+(.+?)\s+([\d,\.]+)\s+G`)

	// G + quantity + unit price + total price + code + country + product code
	invItemStep2 = regexp.MustCompile(`G\s+(\d+[\d,]*)\s+([\d,\.]+)\s+([\d,\.]+)\s+(\d+)\s+([A-Z]{2})\s+(\S+)$`)

	// Lines starting with 13 digits (potential items)
	invEANLine = regexp.MustCompile(`^\d{13}`)

	invShipmentNo = regexp.MustCompile(`Shipment Number: (\d+)`)
	invTotalQty   = regexp.MustCompile(`TOTAL QUANTITY (\d+)`)

	// Header metadata. The header is laid out as labelled lines; the
	// invoice date shares the invoice-number row, so a bare dd.mm.yyyy
	// date is also accepted once the invoice number is known.
	invEDI        = regexp.MustCompile(`(?i)Your\s+Reference\s*:?\s*([A-Z0-9]+)`)
	invDeliveryNo = regexp.MustCompile(`(?i)Delivery\s+(?:Note|Number|No\.?)\s*:?\s*(\d+)`)
	invInvoiceNo  = regexp.MustCompile(`(?i)Invoice\s+(?:Number|No\.?)\s*:?\s*(\S+)`)
	invDate       = regexp.MustCompile(`(?i)Invoice\s+Date\s*:?\s*(\d{2}\.\d{2}\.\d{4})`)
	invBareDate   = regexp.MustCompile(`\b(\d{2}\.\d{2}\.\d{4})\b`)
)

// termsOfSaleMarker identifies the page that terminates an invoice.
const termsOfSaleMarker = "GENERAL TERMS OF SALE"

// Packing list grammar.
var (
	plEDI        = regexp.MustCompile(`(?i)Your\s+Reference\s+([A-Z0-9]+)`)
	plOrderNo    = regexp.MustCompile(`(?i)Order\s+Number\s*:\s*(\d+)`)
	plShipmentNo = regexp.MustCompile(`(?i)Ship\s+Group\s+ID\s*:\s*(\d+)`)

	// hs_code, brand, sku, description, qty, ean, batch, mfg date, exp date, coo, dg
	plItemLine = regexp.MustCompile(`^(\d+)\s+(\w+)\s+(\S+)\s+(.+?)\s+([\d,]+)\s+(\d{13})\s+(\S+)\s+(\d{2}-\d{2}-\d{4})\s+(\d{2}-\d{2}-\d{4})\s+([A-Z]{1,2})\s+([YN])`)

	// Fallback tolerating a line break before the dangerous-goods flag.
	// Anchored to a line start so the scan cannot latch onto digits inside
	// the header metadata.
	plItemLineFlexible = regexp.MustCompile(`(?sm)^(\d+)\s+(\w+)\s+(\S+)\s+(.+?)\s+([\d,]+)\s+(\d{13})\s+(\S+)\s+(\d{2}-\d{2}-\d{4})\s+(\d{2}-\d{2}-\d{4})\s+([A-Z]{1,2})\s*\n?([YN])`)
)
