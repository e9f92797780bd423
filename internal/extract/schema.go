package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// buildInvoiceLineSchema returns the JSON-Schema constraint for one invoice
// line: 13-digit EAN, ISO dates and non-negative quantities and prices.
func buildInvoiceLineSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"edi":             map[string]any{"type": "string"},
			"delivery_no":     map[string]any{"type": "string"},
			"invoice_no":      map[string]any{"type": "string"},
			"invoice_date":    dateProp(),
			"shipment_no":     map[string]any{"type": "string"},
			"total_quantity":  map[string]any{"type": "integer", "minimum": 0},
			"ean_code":        eanProp(),
			"ref":             map[string]any{"type": "string"},
			"ref_00":          map[string]any{"type": "string"},
			"description":     map[string]any{"type": "string"},
			"quantity":        map[string]any{"type": "integer", "minimum": 0},
			"unit_price":      map[string]any{"type": "number", "minimum": 0},
			"total_price_usd": map[string]any{"type": "number", "minimum": 0},
			"country":         map[string]any{"type": "string", "pattern": `^[A-Z]{2}$`},
		},
		"required": []string{"ean_code", "quantity", "unit_price", "total_price_usd"},
	}
}

// buildPackingListLineSchema returns the JSON-Schema constraint for one
// packing list line.
func buildPackingListLineSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"edi":         map[string]any{"type": "string"},
			"delivery_no": map[string]any{"type": "string"},
			"shipment_no": map[string]any{"type": "string"},
			"brand":       map[string]any{"type": "string"},
			"ean":         eanProp(),
			"ref":         map[string]any{"type": "string"},
			"ref_00":      map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"qty":         map[string]any{"type": "integer", "minimum": 0},
			"batch":       map[string]any{"type": "string"},
			"mfg_date":    dateProp(),
			"exp_date":    dateProp(),
			"dg":          map[string]any{"type": "string", "enum": []string{"Y", "N"}},
		},
		"required": []string{"ean", "qty", "batch"},
	}
}

// dateProp accepts the normalized ISO form plus the printed dd-mm-yyyy /
// dd.mm.yyyy forms, which are kept verbatim when a value does not parse as
// a calendar date.
func dateProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^(\d{4}-\d{2}-\d{2}|\d{2}-\d{2}-\d{4}|\d{2}\.\d{2}\.\d{4})$`,
	}
}

func eanProp() map[string]any {
	return map[string]any{"type": "string", "pattern": `^\d{13}$`}
}

// ValidateInvoiceLines checks every line against the invoice line schema
func ValidateInvoiceLines(lines []InvoiceLine) error {
	schema, err := compileSchema(buildInvoiceLineSchema())
	if err != nil {
		return err
	}
	for i, line := range lines {
		if err := validateRecord(schema, line); err != nil {
			return fmt.Errorf("invoice line %d (ean %s): %w", i+1, line.EanCode, err)
		}
	}
	return nil
}

// ValidatePackingListLines checks every line against the packing list line schema
func ValidatePackingListLines(lines []PackingListLine) error {
	schema, err := compileSchema(buildPackingListLineSchema())
	if err != nil {
		return err
	}
	for i, line := range lines {
		if err := validateRecord(schema, line); err != nil {
			return fmt.Errorf("packing list line %d (ean %s): %w", i+1, line.EAN, err)
		}
	}
	return nil
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

func validateRecord(schema *jsonschema.Schema, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}
