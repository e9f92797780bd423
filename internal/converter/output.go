package converter

import (
	"path/filepath"
	"strings"
)

const outputSuffix = "_parsed_data.xlsx"

// inputSuffixes are the document-kind markers stripped from an input file
// name before the output name is derived.
var inputSuffixes = []string{" ci", "_ci", "-ci", " pl", "_pl", "-pl"}

// deriveOutputPath names the workbook after the first input file: the
// document-kind suffix is stripped from the base name and _parsed_data.xlsx
// appended, next to the input. "Shipment 42 CI.pdf" becomes
// "Shipment 42_parsed_data.xlsx".
func deriveOutputPath(inputPath string) string {
	dir := filepath.Dir(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	lower := strings.ToLower(base)
	for _, suffix := range inputSuffixes {
		if strings.HasSuffix(lower, suffix) && len(base) > len(suffix) {
			base = base[:len(base)-len(suffix)]
			break
		}
	}
	base = strings.TrimRight(base, " _-")
	if base == "" {
		base = "output"
	}

	return filepath.Join(dir, base+outputSuffix)
}
