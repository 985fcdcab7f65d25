package product

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Free-text parsers for the interactive override flow. Inputs come straight
// from the user (Spanish or English), so everything here is tolerant:
// bad segments are dropped, never errored.

var (
	reListSep    = regexp.MustCompile(`[\n,]+`)
	reNumeric    = regexp.MustCompile(`[^0-9.,-]`)
	reNonLetters = regexp.MustCompile(`[^a-záéíóúüñ\s]`)

	reWeight     = regexp.MustCompile(`(?i)(?:peso|weight)\s*: ?([\d.,]+)\s*([a-zA-Z]*)`)
	reDimTriple  = regexp.MustCompile(`dimensiones?\s*: ?([\d.,]+)\s*[xX]\s*([\d.,]+)\s*[xX]\s*([\d.,]+)`)
	reDimLength  = regexp.MustCompile(`(?i)(?:largo|longitud|length)\s*: ?([\d.,]+)`)
	reDimWidth   = regexp.MustCompile(`(?i)(?:ancho|width)\s*: ?([\d.,]+)`)
	reDimHeight  = regexp.MustCompile(`(?i)(?:alto|altura|height)\s*: ?([\d.,]+)`)
	reAttrSep    = regexp.MustCompile(`[\n;]+`)
	reAttrKeyVal = regexp.MustCompile(`[:=|-]`)
)

// SplitOptions controls SplitList behaviour.
type SplitOptions struct {
	// AllowHierarchy additionally splits each segment on ">" so a category
	// path like "Muebles > Sillas" flattens into its individual levels.
	AllowHierarchy bool
}

// SplitList splits free text on newlines and commas, trims each segment,
// drops empties and deduplicates preserving first-seen order.
func SplitList(value string, opts SplitOptions) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var parts []string
	for _, part := range reListSep.Split(value, -1) {
		if opts.AllowHierarchy {
			parts = append(parts, strings.Split(part, ">")...)
		} else {
			parts = append(parts, part)
		}
	}
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ParseStockQuantity extracts an integer quantity from text like "12,5 uds".
// Comma decimals are normalized, the result is rounded and clamped at zero.
// ok is false for empty or unparseable input ("absent", not zero).
func ParseStockQuantity(value string) (qty int, ok bool) {
	if value == "" {
		return 0, false
	}
	normalized := strings.ReplaceAll(reNumeric.ReplaceAllString(value, ""), ",", ".")
	if normalized == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsInf(parsed, 0) || math.IsNaN(parsed) {
		return 0, false
	}
	rounded := int(math.Round(parsed))
	if rounded < 0 {
		rounded = 0
	}
	return rounded, true
}

// ParseStatus maps a conversational answer onto a product status.
// Draft/pending/private keywords are checked first and short-circuit the
// publish heuristic, which accepts "public"/"activar" or a bare affirmative
// ("si"/"sí") token. Anything else is absent.
func ParseStatus(value string) (Status, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return "", false
	}
	switch {
	case strings.Contains(normalized, "borrador") || strings.Contains(normalized, "draft"):
		return StatusDraft, true
	case strings.Contains(normalized, "pend"):
		return StatusPending, true
	case strings.Contains(normalized, "priv"):
		return StatusPrivate, true
	}
	if strings.Contains(normalized, "public") || strings.Contains(normalized, "activar") {
		return StatusPublish, true
	}
	sanitized := reNonLetters.ReplaceAllString(normalized, " ")
	for _, tok := range strings.Fields(sanitized) {
		if tok == "si" || tok == "sí" {
			return StatusPublish, true
		}
	}
	return "", false
}

// ShippingInfo is the transient result of ParseShippingDetails. Weight is a
// normalized numeric string in kilograms; each dimension is independently
// optional.
type ShippingInfo struct {
	Weight     string
	Dimensions *Dimensions
}

// ParseShippingDetails runs two independent extractions over free text:
// a "peso/weight: <n><unit>" pattern (grams converted to kilograms) and a
// compact "LxWxH" triple with labeled largo/ancho/alto fallbacks.
func ParseShippingDetails(raw string) ShippingInfo {
	var info ShippingInfo
	if strings.TrimSpace(raw) == "" {
		return info
	}

	if m := reWeight.FindStringSubmatch(raw); m != nil {
		if amount, ok := parseLooseFloat(m[1]); ok {
			if strings.HasPrefix(strings.ToLower(m[2]), "g") {
				amount /= 1000
			}
			info.Weight = formatNumber(amount)
		}
	}

	var dims Dimensions
	if m := reDimTriple.FindStringSubmatch(raw); m != nil {
		if v, ok := parseLooseFloat(m[1]); ok {
			dims.Length = formatNumber(v)
		}
		if v, ok := parseLooseFloat(m[2]); ok {
			dims.Width = formatNumber(v)
		}
		if v, ok := parseLooseFloat(m[3]); ok {
			dims.Height = formatNumber(v)
		}
	} else {
		if m := reDimLength.FindStringSubmatch(raw); m != nil {
			if v, ok := parseLooseFloat(m[1]); ok {
				dims.Length = formatNumber(v)
			}
		}
		if m := reDimWidth.FindStringSubmatch(raw); m != nil {
			if v, ok := parseLooseFloat(m[1]); ok {
				dims.Width = formatNumber(v)
			}
		}
		if m := reDimHeight.FindStringSubmatch(raw); m != nil {
			if v, ok := parseLooseFloat(m[1]); ok {
				dims.Height = formatNumber(v)
			}
		}
	}
	if dims.Length != "" || dims.Width != "" || dims.Height != "" {
		info.Dimensions = &dims
	}
	return info
}

// ParseAttributesInput turns "Color: rojo; Talla = M" style text into
// attribute overrides. Segments split on newlines/semicolons then commas;
// each one splits on the first of ":", "=", "|" or "-" into name/value.
// Deduplicated by lowercased name, first occurrence wins. Variation defaults
// to false here: an override names a concrete value, not a variation axis.
func ParseAttributesInput(raw string) []Attribute {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var segments []string
	for _, chunk := range reAttrSep.Split(raw, -1) {
		segments = append(segments, strings.Split(chunk, ",")...)
	}

	var out []Attribute
	seen := make(map[string]struct{})
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		loc := reAttrKeyVal.FindStringIndex(seg)
		if loc == nil {
			continue
		}
		name := strings.TrimSpace(seg[:loc[0]])
		value := strings.TrimSpace(seg[loc[1]:])
		if name == "" || value == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Attribute{Name: name, Value: value, Visible: true, Variation: false})
	}
	return out
}

func parseLooseFloat(input string) (float64, bool) {
	normalized := strings.ReplaceAll(reNumeric.ReplaceAllString(input, ""), ",", ".")
	if normalized == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// formatNumber renders a float rounded to 3 decimals without insignificant
// trailing zeros; integers print without a decimal point.
func formatNumber(v float64) string {
	rounded := math.Round(v*1000) / 1000
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
