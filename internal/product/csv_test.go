package product

import (
	"encoding/csv"
	"reflect"
	"strings"
	"testing"
)

func parseCSV(t *testing.T, raw string) (header []string, rows []map[string]string) {
	t.Helper()
	r := csv.NewReader(strings.NewReader(raw))
	all, err := r.ReadAll()
	if err != nil {
		t.Fatalf("re-read exported csv: %v", err)
	}
	if len(all) == 0 {
		t.Fatal("exported csv has no header row")
	}
	header = all[0]
	for _, rec := range all[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			row[col] = rec[i]
		}
		rows = append(rows, row)
	}
	return header, rows
}

func TestExportCSVColumnsAndConstants(t *testing.T) {
	qty := 20
	rec := Record{
		Name:          "Silla de madera",
		RegularPrice:  "49.90",
		Categories:    []string{"Muebles", "Sillas"},
		Tags:          []string{"madera"},
		Images:        []string{"https://example.com/a.jpg", "https://example.com/b.jpg"},
		StockQuantity: &qty,
	}

	out, err := ExportCSV([]Record{rec})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	header, rows := parseCSV(t, out)

	if !reflect.DeepEqual(header, csvColumns) {
		t.Errorf("header = %v, want fixed column order", header)
	}
	row := rows[0]
	for col, want := range map[string]string{
		"Type":                    "simple",
		"Published":               "1",
		"Is featured?":            "0",
		"Visibility in catalog":   "visible",
		"Tax status":              "taxable",
		"Backorders allowed?":     "0",
		"Sold individually?":      "0",
		"Allow customer reviews?": "1",
		"In stock?":               "1",
		"Stock":                   "20",
		"Categories":              "Muebles, Sillas",
		"Tags":                    "madera",
		"Images":                  "https://example.com/a.jpg, https://example.com/b.jpg",
		"Regular price":           "49.90",
	} {
		if row[col] != want {
			t.Errorf("%s = %q, want %q", col, row[col], want)
		}
	}
}

func TestExportCSVStockFlags(t *testing.T) {
	zero := 0
	tests := []struct {
		name    string
		stock   *int
		inStock string
		stockV  string
	}{
		{"absent", nil, "0", "0"},
		{"zero", &zero, "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ExportCSV([]Record{{Name: "x", StockQuantity: tt.stock}})
			if err != nil {
				t.Fatalf("ExportCSV: %v", err)
			}
			_, rows := parseCSV(t, out)
			if rows[0]["In stock?"] != tt.inStock || rows[0]["Stock"] != tt.stockV {
				t.Errorf("In stock?=%q Stock=%q, want %q/%q",
					rows[0]["In stock?"], rows[0]["Stock"], tt.inStock, tt.stockV)
			}
		})
	}
}

func TestExportCSVAttributeColumns(t *testing.T) {
	wide := Record{Name: "wide", Attributes: []Attribute{
		{Name: "Color", Value: "rojo", Visible: true},
		{Name: "Talla", Value: "M", Visible: false},
	}}
	narrow := Record{Name: "narrow", Attributes: []Attribute{
		{Name: "Material", Value: "lino", Visible: true},
	}}

	out, err := ExportCSV([]Record{wide, narrow})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	header, rows := parseCSV(t, out)

	// widest record sizes the attribute column groups
	for _, col := range []string{
		"Attribute 1 name", "Attribute 1 value(s)", "Attribute 1 visible", "Attribute 1 global",
		"Attribute 2 name", "Attribute 2 value(s)", "Attribute 2 visible", "Attribute 2 global",
	} {
		found := false
		for _, h := range header {
			if h == col {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing column %q", col)
		}
	}
	if rows[0]["Attribute 2 name"] != "Talla" || rows[0]["Attribute 2 visible"] != "0" {
		t.Errorf("wide attribute row = %+v", rows[0])
	}
	if rows[1]["Attribute 1 name"] != "Material" || rows[1]["Attribute 2 name"] != "" {
		t.Errorf("narrow row should leave later attribute columns blank: %+v", rows[1])
	}
	if rows[0]["Attribute 1 global"] != "1" {
		t.Errorf("Attribute 1 global = %q, want 1", rows[0]["Attribute 1 global"])
	}
}

func TestExportCSVQuoting(t *testing.T) {
	rec := Record{Name: `Mesa "rústica", grande`, Description: "línea 1\nlínea 2"}
	out, err := ExportCSV([]Record{rec})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if !strings.Contains(out, `"Mesa ""rústica"", grande"`) {
		t.Errorf("name not quoted/escaped: %s", out)
	}
	_, rows := parseCSV(t, out)
	if rows[0]["Name"] != rec.Name || rows[0]["Description"] != rec.Description {
		t.Errorf("round-trip lost quoting: %+v", rows[0])
	}
}

func TestExportCSVRoundTripLists(t *testing.T) {
	rec := Record{
		Name:       "Silla",
		Categories: []string{"Muebles", "Sillas"},
		Tags:       []string{"madera", "artesanal"},
		Images:     []string{"https://example.com/a.jpg"},
	}
	out, err := ExportCSV([]Record{rec})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	_, rows := parseCSV(t, out)

	split := func(s string) []string { return strings.Split(s, ", ") }
	if got := split(rows[0]["Categories"]); !reflect.DeepEqual(got, rec.Categories) {
		t.Errorf("categories round-trip = %v", got)
	}
	if got := split(rows[0]["Tags"]); !reflect.DeepEqual(got, rec.Tags) {
		t.Errorf("tags round-trip = %v", got)
	}
	if got := split(rows[0]["Images"]); !reflect.DeepEqual(got, rec.Images) {
		t.Errorf("images round-trip = %v", got)
	}
}
