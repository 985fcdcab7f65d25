package product

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// Fixed column set of the WooCommerce bulk product import, in the order the
// importer documents. Per-attribute column groups are appended after these,
// sized by the widest record in the batch.
var csvColumns = []string{
	"Type",
	"SKU",
	"Name",
	"Published",
	"Is featured?",
	"Visibility in catalog",
	"Short description",
	"Description",
	"Date sale price starts",
	"Date sale price ends",
	"Tax status",
	"Tax class",
	"In stock?",
	"Stock",
	"Backorders allowed?",
	"Sold individually?",
	"Weight (kg)",
	"Length (cm)",
	"Width (cm)",
	"Height (cm)",
	"Allow customer reviews?",
	"Purchase note",
	"Sale price",
	"Regular price",
	"Categories",
	"Tags",
	"Shipping class",
	"Images",
	"Parent",
}

// ExportCSV serializes records into the WooCommerce import CSV, header row
// included. Quoting follows RFC 4180 via encoding/csv: fields containing
// the delimiter, quotes or line breaks get quoted with internal quotes
// doubled, which is what the Woo importer expects.
func ExportCSV(records []Record) (string, error) {
	maxAttrs := 0
	for _, rec := range records {
		if n := len(rec.Attributes); n > maxAttrs {
			maxAttrs = n
		}
	}

	header := append([]string(nil), csvColumns...)
	for i := 1; i <= maxAttrs; i++ {
		header = append(header,
			fmt.Sprintf("Attribute %d name", i),
			fmt.Sprintf("Attribute %d value(s)", i),
			fmt.Sprintf("Attribute %d visible", i),
			fmt.Sprintf("Attribute %d global", i),
		)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("csv header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(csvRow(rec, maxAttrs)); err != nil {
			return "", fmt.Errorf("csv row %q: %w", rec.Name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("csv flush: %w", err)
	}
	return buf.String(), nil
}

func csvRow(rec Record, maxAttrs int) []string {
	inStock := "0"
	stock := "0"
	if rec.StockQuantity != nil {
		if *rec.StockQuantity != 0 {
			inStock = "1"
		}
		stock = fmt.Sprintf("%d", *rec.StockQuantity)
	}

	row := []string{
		"simple",             // Type
		"",                   // SKU
		rec.Name,             // Name
		"1",                  // Published
		"0",                  // Is featured?
		"visible",            // Visibility in catalog
		rec.ShortDescription, // Short description
		rec.Description,      // Description
		"",                   // Date sale price starts
		"",                   // Date sale price ends
		"taxable",            // Tax status
		"",                   // Tax class
		inStock,              // In stock?
		stock,                // Stock
		"0",                  // Backorders allowed?
		"0",                  // Sold individually?
		"",                   // Weight (kg)
		"",                   // Length (cm)
		"",                   // Width (cm)
		"",                   // Height (cm)
		"1",                  // Allow customer reviews?
		"",                   // Purchase note
		rec.SalePrice,        // Sale price
		rec.RegularPrice,     // Regular price
		strings.Join(rec.Categories, ", "),
		strings.Join(rec.Tags, ", "),
		"", // Shipping class
		strings.Join(rec.Images, ", "),
		"", // Parent
	}

	for i := 0; i < maxAttrs; i++ {
		if i < len(rec.Attributes) {
			attr := rec.Attributes[i]
			visible := "0"
			if attr.Visible {
				visible = "1"
			}
			row = append(row, attr.Name, attr.Value, visible, "1")
		} else {
			row = append(row, "", "", "", "")
		}
	}
	return row
}
