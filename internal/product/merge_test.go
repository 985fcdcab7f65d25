package product

import (
	"reflect"
	"testing"
)

func baseRecord() Record {
	qty := 10
	return Record{
		Name:          "Silla de madera",
		RegularPrice:  "49.90",
		Categories:    []string{"Muebles"},
		Tags:          []string{"madera"},
		Images:        []string{"https://example.com/a.jpg"},
		Status:        StatusDraft,
		Type:          "simple",
		StockQuantity: &qty,
		Attributes:    []Attribute{{Name: "Color", Value: "nogal", Visible: true, Variation: true}},
		Dimensions:    &Dimensions{Length: "100", Width: "40", Height: "90"},
	}
}

func TestMergeIdempotence(t *testing.T) {
	base := baseRecord()
	if got := Merge(base, nil); !reflect.DeepEqual(got, base) {
		t.Errorf("Merge(base, nil) = %+v, want base unchanged", got)
	}
	if got := Merge(base, &Overrides{}); !reflect.DeepEqual(got, base) {
		t.Errorf("Merge(base, empty) = %+v, want base unchanged", got)
	}
}

func TestMergePurity(t *testing.T) {
	base := baseRecord()
	ov := &Overrides{Categories: []string{"Sillas"}}
	out := Merge(base, ov)
	out.Categories[0] = "mutated"
	if base.Categories[0] != "Muebles" {
		t.Error("Merge result shares backing array with base")
	}
	if got := Merge(baseRecord(), ov); got.Categories[0] != "Sillas" {
		t.Errorf("second Merge with same overrides differs: %v", got.Categories)
	}
}

func TestMergeScalars(t *testing.T) {
	base := baseRecord()
	out := Merge(base, &Overrides{Name: "Silla nórdica", RegularPrice: "  "})
	if out.Name != "Silla nórdica" {
		t.Errorf("name = %q", out.Name)
	}
	if out.RegularPrice != "49.90" {
		t.Errorf("whitespace-only price override replaced base: %q", out.RegularPrice)
	}
}

func TestMergeStatus(t *testing.T) {
	tests := []struct {
		override string
		want     Status
	}{
		{" Publish ", StatusPublish},
		{"PRIVATE", StatusPrivate},
		{"archived", StatusDraft}, // invalid, base kept
		{"", StatusDraft},
	}
	for _, tt := range tests {
		out := Merge(baseRecord(), &Overrides{Status: tt.override})
		if out.Status != tt.want {
			t.Errorf("Merge status %q = %q, want %q", tt.override, out.Status, tt.want)
		}
	}
}

func TestMergeLists(t *testing.T) {
	base := baseRecord()

	out := Merge(base, &Overrides{Categories: []string{"  "}})
	if !reflect.DeepEqual(out.Categories, []string{"Muebles"}) {
		t.Errorf("whitespace-only list override should keep base, got %v", out.Categories)
	}

	out = Merge(base, &Overrides{Categories: []string{" Muebles ", "Sillas", "Sillas"}})
	if want := []string{"Muebles", "Sillas"}; !reflect.DeepEqual(out.Categories, want) {
		t.Errorf("categories = %v, want %v", out.Categories, want)
	}
	// whole-field replace, never element-wise merge
	out = Merge(base, &Overrides{Tags: []string{"roble"}})
	if want := []string{"roble"}; !reflect.DeepEqual(out.Tags, want) {
		t.Errorf("tags = %v, want replacement %v", out.Tags, want)
	}
}

func TestMergeAttributes(t *testing.T) {
	base := baseRecord()

	// entries without both name and value are filtered; the filtered list replaces
	out := Merge(base, &Overrides{Attributes: []Attribute{
		{Name: "Talla", Value: "M", Visible: true},
		{Name: "", Value: "x"},
		{Name: "y", Value: ""},
	}})
	if len(out.Attributes) != 1 || out.Attributes[0].Name != "Talla" {
		t.Errorf("attributes = %+v", out.Attributes)
	}

	// nothing survives the filter → base kept
	out = Merge(base, &Overrides{Attributes: []Attribute{{Name: "", Value: ""}}})
	if len(out.Attributes) != 1 || out.Attributes[0].Name != "Color" {
		t.Errorf("attributes = %+v, want base kept", out.Attributes)
	}
}

func TestMergeDimensions(t *testing.T) {
	base := baseRecord()

	// partial override replaces the whole triple, absent members included
	out := Merge(base, &Overrides{Dimensions: &Dimensions{Length: "120"}})
	if out.Dimensions == nil || out.Dimensions.Length != "120" || out.Dimensions.Width != "" {
		t.Errorf("dimensions = %+v, want whole-field replacement", out.Dimensions)
	}

	out = Merge(base, &Overrides{Dimensions: &Dimensions{}})
	if out.Dimensions == nil || out.Dimensions.Length != "100" {
		t.Errorf("empty dimensions override should keep base, got %+v", out.Dimensions)
	}
}

func TestMergeStockPresence(t *testing.T) {
	base := baseRecord()

	zero := 0
	out := Merge(base, &Overrides{StockQuantity: &zero})
	if out.StockQuantity == nil || *out.StockQuantity != 0 {
		t.Errorf("explicit zero stock must win, got %v", out.StockQuantity)
	}

	out = Merge(base, &Overrides{})
	if out.StockQuantity == nil || *out.StockQuantity != 10 {
		t.Errorf("absent stock override must keep base, got %v", out.StockQuantity)
	}
}
