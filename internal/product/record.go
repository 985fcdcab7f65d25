package product

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Status is the WooCommerce publication status.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusPending Status = "pending"
	StatusPrivate Status = "private"
	StatusPublish Status = "publish"
)

// Valid reports whether s is one of the four statuses Woo accepts.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusPrivate, StatusPublish:
		return true
	}
	return false
}

// Dimensions holds package dimensions as numeric strings, each independently
// optional. The remote payload carries them all-or-nothing.
type Dimensions struct {
	Length string `json:"length,omitempty"`
	Width  string `json:"width,omitempty"`
	Height string `json:"height,omitempty"`
}

// Empty reports whether no dimension is set.
func (d Dimensions) Empty() bool {
	return d.Length == "" && d.Width == "" && d.Height == ""
}

// Attribute is a single product attribute (Color, Talla, ...).
type Attribute struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Visible   bool   `json:"visible"`
	Variation bool   `json:"variation"`
}

// Record is the canonical product shape. Prices and weight stay as strings
// the way the Woo API keeps them. Category/tag/image lists never hold
// duplicates or empty strings.
type Record struct {
	Name             string      `json:"name"`
	ShortDescription string      `json:"short_description,omitempty"`
	Description      string      `json:"description,omitempty"`
	RegularPrice     string      `json:"regular_price,omitempty"`
	SalePrice        string      `json:"sale_price,omitempty"`
	StockQuantity    *int        `json:"stock_quantity,omitempty"`
	Categories       []string    `json:"categories"`
	Tags             []string    `json:"tags"`
	Images           []string    `json:"images"`
	SKU              string      `json:"sku,omitempty"`
	Status           Status      `json:"status,omitempty"`
	Type             string      `json:"type,omitempty"`
	Weight           string      `json:"weight,omitempty"`
	Dimensions       *Dimensions `json:"dimensions,omitempty"`
	Attributes       []Attribute `json:"attributes"`
}

// ValidationError describes why a candidate object is not a valid Record.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record: %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// FromJSON decodes a JSON object (typically the extraction service output)
// and validates it against the Record shape. On success defaults are
// applied: nil lists become empty, attribute visible/variation default true,
// list fields are trimmed and deduplicated.
func FromJSON(data []byte) (*Record, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("record: not a JSON object: %w", err)
	}

	rec := &Record{}

	name, err := stringField(raw, "name")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, invalid("name", "required")
	}
	rec.Name = name

	if rec.ShortDescription, err = stringField(raw, "short_description"); err != nil {
		return nil, err
	}
	if rec.Description, err = stringField(raw, "description"); err != nil {
		return nil, err
	}
	if rec.RegularPrice, err = stringField(raw, "regular_price"); err != nil {
		return nil, err
	}
	if rec.SalePrice, err = stringField(raw, "sale_price"); err != nil {
		return nil, err
	}
	if rec.SKU, err = stringField(raw, "sku"); err != nil {
		return nil, err
	}
	if rec.Type, err = stringField(raw, "type"); err != nil {
		return nil, err
	}
	if rec.Weight, err = stringField(raw, "weight"); err != nil {
		return nil, err
	}

	status, err := stringField(raw, "status")
	if err != nil {
		return nil, err
	}
	if status != "" {
		rec.Status = Status(status)
		if !rec.Status.Valid() {
			return nil, invalid("status", fmt.Sprintf("unknown value %q", status))
		}
	}

	if msg, ok := raw["stock_quantity"]; ok && !isJSONNull(msg) {
		var qty float64
		if err := json.Unmarshal(msg, &qty); err != nil {
			return nil, invalid("stock_quantity", "must be a finite number")
		}
		if math.IsInf(qty, 0) || math.IsNaN(qty) {
			return nil, invalid("stock_quantity", "must be a finite number")
		}
		n := int(math.Round(qty))
		rec.StockQuantity = &n
	}

	if rec.Categories, err = stringListField(raw, "categories"); err != nil {
		return nil, err
	}
	if rec.Tags, err = stringListField(raw, "tags"); err != nil {
		return nil, err
	}
	if rec.Images, err = stringListField(raw, "images"); err != nil {
		return nil, err
	}

	if msg, ok := raw["dimensions"]; ok && !isJSONNull(msg) {
		var dims Dimensions
		if err := json.Unmarshal(msg, &dims); err != nil {
			return nil, invalid("dimensions", "must be an object of numeric strings")
		}
		if !dims.Empty() {
			rec.Dimensions = &dims
		}
	}

	attrs, err := attributesField(raw)
	if err != nil {
		return nil, err
	}
	rec.Attributes = attrs

	return rec, nil
}

func stringField(raw map[string]json.RawMessage, field string) (string, error) {
	msg, ok := raw[field]
	if !ok || isJSONNull(msg) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return "", invalid(field, "must be a string")
	}
	return s, nil
}

func stringListField(raw map[string]json.RawMessage, field string) ([]string, error) {
	msg, ok := raw[field]
	if !ok || isJSONNull(msg) {
		return []string{}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(msg, &items); err != nil {
		return nil, invalid(field, "must be an array of strings")
	}
	list := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			return nil, invalid(field, "must be an array of strings")
		}
		list = append(list, s)
	}
	return DedupeList(list), nil
}

func attributesField(raw map[string]json.RawMessage) ([]Attribute, error) {
	msg, ok := raw["attributes"]
	if !ok || isJSONNull(msg) {
		return []Attribute{}, nil
	}
	var items []struct {
		Name      *string `json:"name"`
		Value     *string `json:"value"`
		Visible   *bool   `json:"visible"`
		Variation *bool   `json:"variation"`
	}
	if err := json.Unmarshal(msg, &items); err != nil {
		return nil, invalid("attributes", "must be an array of {name, value} objects")
	}
	attrs := make([]Attribute, 0, len(items))
	for i, item := range items {
		if item.Name == nil {
			return nil, invalid(fmt.Sprintf("attributes[%d].name", i), "required")
		}
		if item.Value == nil {
			return nil, invalid(fmt.Sprintf("attributes[%d].value", i), "required")
		}
		attr := Attribute{Name: *item.Name, Value: *item.Value, Visible: true, Variation: true}
		if item.Visible != nil {
			attr.Visible = *item.Visible
		}
		if item.Variation != nil {
			attr.Variation = *item.Variation
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

func isJSONNull(msg json.RawMessage) bool {
	return string(msg) == "null"
}

// DedupeList trims every element, drops empties and removes case-sensitive
// duplicates preserving first-seen order. Always returns a non-nil slice.
func DedupeList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Clone returns a deep copy; Merge never mutates its inputs.
func (r Record) Clone() Record {
	out := r
	out.Categories = cloneStrings(r.Categories)
	out.Tags = cloneStrings(r.Tags)
	out.Images = cloneStrings(r.Images)
	if r.Attributes != nil {
		out.Attributes = make([]Attribute, len(r.Attributes))
		copy(out.Attributes, r.Attributes)
	}
	if r.StockQuantity != nil {
		qty := *r.StockQuantity
		out.StockQuantity = &qty
	}
	if r.Dimensions != nil {
		dims := *r.Dimensions
		out.Dimensions = &dims
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
