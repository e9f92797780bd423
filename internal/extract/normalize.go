package extract

import (
	"strconv"
	"strings"
	"time"
)

// NormalizeDottedDate converts a dd.mm.yyyy date to yyyy-mm-dd.
// Values that do not parse are returned verbatim.
func NormalizeDottedDate(value string) string {
	return reformatDate(value, "02.01.2006")
}

// NormalizeDashedDate converts a dd-mm-yyyy date to yyyy-mm-dd.
// Values that do not parse are returned verbatim.
func NormalizeDashedDate(value string) string {
	return reformatDate(value, "02-01-2006")
}

func reformatDate(value, layout string) string {
	if value == "" {
		return ""
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return value
	}
	return t.Format("2006-01-02")
}

// CleanInvoiceShipmentNo strips all leading zeros from an invoice shipment
// number. An all-zero value becomes "0".
func CleanInvoiceShipmentNo(value string) string {
	if value == "" {
		return ""
	}
	trimmed := strings.TrimLeft(value, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

// CleanPackingShipmentNo strips an exact "0000" prefix from a packing list
// shipment number. An all-zero value becomes "0".
func CleanPackingShipmentNo(value string) string {
	return trimZeroPrefix(value, "0000")
}

// CleanPackingDeliveryNo strips an exact "00" prefix from a packing list
// order number. An all-zero value becomes "0".
func CleanPackingDeliveryNo(value string) string {
	return trimZeroPrefix(value, "00")
}

func trimZeroPrefix(value, prefix string) string {
	if value == "" {
		return ""
	}
	if !strings.HasPrefix(value, prefix) {
		return value
	}
	trimmed := value[len(prefix):]
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

// DeriveRef00 replaces the last two characters of a product reference with
// "00". References shorter than two characters are returned unchanged.
func DeriveRef00(ref string) string {
	if len(ref) < 2 {
		return ref
	}
	return ref[:len(ref)-2] + "00"
}

// parseQuantity parses an integer quantity that may carry thousands commas.
func parseQuantity(value string) (int, error) {
	return strconv.Atoi(strings.ReplaceAll(value, ",", ""))
}

// parsePrice parses a decimal price that may carry thousands commas.
func parsePrice(value string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
}
