package variants

import "strings"

const (
	defaultStockQuantity = "0"
)

// Matrix is the outcome of a Generate run.
type Matrix struct {
	Variants    []VariantRecord `json:"variants"`
	GroupBy     string          `json:"group_by"`
	ActiveIndex int             `json:"active_index"`
}

// QualifyingAxes flattens every section into one axis list, dropping axes
// with a blank name or no committed values.
func QualifyingAxes(sections []OptionSection) []Axis {
	var axes []Axis
	for _, sec := range sections {
		for _, opt := range sec.Options {
			name := strings.TrimSpace(opt.OptionName)
			if name == "" {
				continue
			}
			values := CommittedValues(opt.ValuesInput)
			if len(values) == 0 {
				continue
			}
			axes = append(axes, Axis{Name: name, Values: values})
		}
	}
	return axes
}

// Generate builds the variant matrix for sections. Pricing, stock and
// description defaults come from existing[0] when there is one. ok is false
// when no axis qualifies; the caller must keep its current state then.
func Generate(sections []OptionSection, existing []VariantRecord) (m Matrix, ok bool) {
	axes := QualifyingAxes(sections)
	if len(axes) == 0 {
		return Matrix{}, false
	}

	valueLists := make([][]string, len(axes))
	for i, a := range axes {
		valueLists[i] = a.Values
	}

	tmpl := templateFrom(existing)
	combos := Cartesian(valueLists)
	built := make([]VariantRecord, 0, len(combos))
	for _, combo := range combos {
		opts := make(map[string]string, len(combo))
		for i, v := range combo {
			opts[axes[i].Name] = v
		}
		rec := tmpl
		rec.Name = DisplayName(opts)
		rec.Options = opts
		built = append(built, rec)
	}

	return Matrix{
		Variants:    Dedupe(built),
		GroupBy:     axes[0].Name,
		ActiveIndex: 0,
	}, true
}

// Dedupe drops records whose canonical key was already seen, keeping the
// first, and re-derives Name and Options from the canonical attributes of
// every kept record. Running it twice changes nothing.
func Dedupe(vs []VariantRecord) []VariantRecord {
	out := make([]VariantRecord, 0, len(vs))
	seen := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		attrs := AttributesOf(v)
		key := CanonicalKey(attrs)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		rec := v.Clone()
		if len(attrs) > 0 {
			rec.Options = copyAttrs(attrs)
			rec.Name = DisplayName(attrs)
		}
		out = append(out, rec)
	}
	return out
}

// templateFrom returns the defaults every freshly generated record starts
// from. Identity, name, options, SKU and images are never inherited.
func templateFrom(existing []VariantRecord) VariantRecord {
	if len(existing) == 0 {
		return VariantRecord{
			StockStatus:   InStock,
			StockQuantity: defaultStockQuantity,
		}
	}
	src := existing[0]
	status := src.StockStatus
	if status == "" {
		status = InStock
	}
	return VariantRecord{
		MRP:           src.MRP,
		OfferPrice:    src.OfferPrice,
		CostPrice:     src.CostPrice,
		Description:   src.Description,
		StockStatus:   status,
		StockQuantity: src.StockQuantity,
	}
}

func copyAttrs(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
