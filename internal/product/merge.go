package product

import "strings"

// Overrides is the bag of user corrections applied on top of an extracted
// record. Every field is advisory: empty or absent values leave the base
// untouched. StockQuantity is the one presence-checked field — an explicit
// zero is a real answer, distinct from "not specified".
type Overrides struct {
	Name             string
	ShortDescription string
	Description      string
	RegularPrice     string
	SalePrice        string
	SKU              string
	Status           string
	Type             string
	Weight           string
	Categories       []string
	Tags             []string
	Images           []string
	StockQuantity    *int
	Attributes       []Attribute
	Dimensions       *Dimensions
}

// Merge produces a new record from base with every non-empty override
// applied. It never mutates base or ov; the same pair always yields the
// same result. List overrides replace the whole base list or leave it
// alone, they never merge element-wise.
func Merge(base Record, ov *Overrides) Record {
	out := base.Clone()
	if ov == nil {
		return out
	}

	applyString(&out.Name, ov.Name)
	applyString(&out.ShortDescription, ov.ShortDescription)
	applyString(&out.Description, ov.Description)
	applyString(&out.RegularPrice, ov.RegularPrice)
	applyString(&out.SalePrice, ov.SalePrice)
	applyString(&out.SKU, ov.SKU)
	applyString(&out.Weight, ov.Weight)

	// Status only wins when it is one of the four known values; anything
	// else is discarded silently and the base status stays.
	if status := Status(strings.ToLower(strings.TrimSpace(ov.Status))); status.Valid() {
		out.Status = status
	}
	if typ := strings.ToLower(strings.TrimSpace(ov.Type)); typ != "" {
		out.Type = typ
	}

	if list := DedupeList(ov.Categories); len(list) > 0 {
		out.Categories = list
	}
	if list := DedupeList(ov.Tags); len(list) > 0 {
		out.Tags = list
	}
	if list := DedupeList(ov.Images); len(list) > 0 {
		out.Images = list
	}

	if len(ov.Attributes) > 0 {
		filtered := make([]Attribute, 0, len(ov.Attributes))
		for _, attr := range ov.Attributes {
			if attr.Name != "" && attr.Value != "" {
				filtered = append(filtered, attr)
			}
		}
		if len(filtered) > 0 {
			out.Attributes = filtered
		}
	}

	// Dimensions replace as a whole, absent members included; they never
	// merge field-wise with the base dimensions.
	if ov.Dimensions != nil && !ov.Dimensions.Empty() {
		dims := *ov.Dimensions
		out.Dimensions = &dims
	}

	if ov.StockQuantity != nil {
		qty := *ov.StockQuantity
		out.StockQuantity = &qty
	}

	return out
}

func applyString(dst *string, override string) {
	if strings.TrimSpace(override) != "" {
		*dst = override
	}
}
