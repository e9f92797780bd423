package extract

import "errors"

// ErrNoRecords is returned when a document yields no extractable line items.
var ErrNoRecords = errors.New("no records found in document")

// InvoiceLine is one flattened invoice row: the invoice header fields
// repeated alongside a single item.
type InvoiceLine struct {
	EDI           string  `json:"edi,omitempty"`
	DeliveryNo    string  `json:"delivery_no,omitempty"`
	InvoiceNo     string  `json:"invoice_no,omitempty"`
	InvoiceDate   string  `json:"invoice_date,omitempty"` // yyyy-mm-dd
	ShipmentNo    string  `json:"shipment_no,omitempty"`
	TotalQuantity *int    `json:"total_quantity,omitempty"`
	EanCode       string  `json:"ean_code,omitempty"`
	Ref           string  `json:"ref,omitempty"`
	Ref00         string  `json:"ref_00,omitempty"`
	Description   string  `json:"description,omitempty"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	TotalPriceUsd float64 `json:"total_price_usd"`
	Country       string  `json:"country,omitempty"`
}

// MissingFields lists the named fields that are absent from this line.
// Quantity, UnitPrice and TotalPriceUsd are always populated by the item
// grammar, so only header-derived and text fields can be missing.
func (l InvoiceLine) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"EDI", l.EDI},
		{"DeliveryNo", l.DeliveryNo},
		{"InvoiceNo", l.InvoiceNo},
		{"InvoiceDate", l.InvoiceDate},
		{"ShipmentNo", l.ShipmentNo},
		{"EanCode", l.EanCode},
		{"Ref", l.Ref},
		{"Ref00", l.Ref00},
		{"Description", l.Description},
		{"Country", l.Country},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if l.TotalQuantity == nil {
		missing = append(missing, "TotalQuantity")
	}
	return missing
}

// PackingListLine is one packing list row.
type PackingListLine struct {
	EDI         string `json:"edi,omitempty"`
	DeliveryNo  string `json:"delivery_no,omitempty"`
	ShipmentNo  string `json:"shipment_no,omitempty"`
	Brand       string `json:"brand,omitempty"`
	EAN         string `json:"ean,omitempty"`
	REF         string `json:"ref,omitempty"`
	REF00       string `json:"ref_00,omitempty"`
	Description string `json:"description,omitempty"`
	Qty         int    `json:"qty"`
	Batch       string `json:"batch,omitempty"`
	MfgDate     string `json:"mfg_date,omitempty"` // yyyy-mm-dd
	ExpDate     string `json:"exp_date,omitempty"` // yyyy-mm-dd
	Dg          string `json:"dg,omitempty"`       // dangerous goods flag, Y or N
}

// MissingFields lists the named fields that are absent from this line.
// Qty is always populated by the item grammar.
func (l PackingListLine) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"EDI", l.EDI},
		{"DeliveryNo", l.DeliveryNo},
		{"ShipmentNo", l.ShipmentNo},
		{"Brand", l.Brand},
		{"EAN", l.EAN},
		{"REF", l.REF},
		{"REF_00", l.REF00},
		{"Description", l.Description},
		{"Batch", l.Batch},
		{"MfgDate", l.MfgDate},
		{"ExpDate", l.ExpDate},
		{"Dg", l.Dg},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// InvoiceItem is a single item row inside one invoice document.
type InvoiceItem struct {
	EanCode       string  `json:"ean_code"`
	Description   string  `json:"description"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	TotalPriceUsd float64 `json:"total_price_usd"`
	Ref           string  `json:"ref"`
	Country       string  `json:"country"`
}

// InvoiceDocument is one commercial invoice: header metadata plus its items.
// A PDF may contain several invoices, each terminated by a terms-of-sale page.
type InvoiceDocument struct {
	EDI           string        `json:"edi,omitempty"`
	DeliveryNo    string        `json:"delivery_no,omitempty"`
	InvoiceNo     string        `json:"invoice_no,omitempty"`
	InvoiceDate   string        `json:"invoice_date,omitempty"` // as printed, dd.mm.yyyy
	ShipmentNo    string        `json:"shipment_no,omitempty"`  // as printed, may carry leading zeros
	TotalQuantity *int          `json:"total_quantity,omitempty"`
	Items         []InvoiceItem `json:"items"`
}

// Lines flattens the document into spreadsheet rows, applying the output
// field shaping: ISO dates, leading zeros stripped from the shipment number
// and the derived Ref00 column.
func (d InvoiceDocument) Lines() []InvoiceLine {
	lines := make([]InvoiceLine, 0, len(d.Items))
	for _, item := range d.Items {
		lines = append(lines, InvoiceLine{
			EDI:           d.EDI,
			DeliveryNo:    d.DeliveryNo,
			InvoiceNo:     d.InvoiceNo,
			InvoiceDate:   NormalizeDottedDate(d.InvoiceDate),
			ShipmentNo:    CleanInvoiceShipmentNo(d.ShipmentNo),
			TotalQuantity: d.TotalQuantity,
			EanCode:       item.EanCode,
			Ref:           item.Ref,
			Ref00:         DeriveRef00(item.Ref),
			Description:   item.Description,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			TotalPriceUsd: item.TotalPriceUsd,
			Country:       item.Country,
		})
	}
	return lines
}
