package variants

// Mode is how the variant table is laid out.
type Mode string

const (
	// ModeFlat shows every variant as a top-level row.
	ModeFlat Mode = "flat"
	// ModeNested shows expandable group headers with member rows.
	ModeNested Mode = "nested"
)

type RowKind string

const (
	RowGroup   RowKind = "group"
	RowVariant RowKind = "variant"
)

// Row is one line of the rendered variant table.
type Row struct {
	Kind  RowKind `json:"kind"`
	Group string  `json:"group,omitempty"`

	// group header fields
	Count    int  `json:"count,omitempty"`
	TotalQty int  `json:"total_qty,omitempty"`
	Expanded bool `json:"expanded,omitempty"`

	// variant fields
	OriginalIndex int    `json:"original_index"`
	Label         string `json:"label,omitempty"`
	SKU           string `json:"sku,omitempty"`
	Nested        bool   `json:"nested,omitempty"`

	Images []Image `json:"images,omitempty"`
}

type PresentOptions struct {
	GroupBy     string
	Search      string
	Expanded    ExpandState
	GroupImages map[string][]Image
}

// Layout is the computed table. Groups holds the filtered partition, Rows
// the flattened lines.
type Layout struct {
	Mode   Mode           `json:"mode"`
	Groups []VariantGroup `json:"groups"`
	Rows   []Row          `json:"rows"`
}

// Present groups, filters and flattens variants into table rows. The
// flat-versus-nested decision is taken on the unfiltered partition so that
// typing into the search box never flips the layout.
func Present(vs []VariantRecord, opt PresentOptions) Layout {
	groups := Group(vs, opt.GroupBy)

	mode := ModeNested
	if opt.GroupBy == "" || IsFlatPartition(groups) {
		mode = ModeFlat
	}

	filtered := filterGroups(groups, opt.Search)
	lay := Layout{Mode: mode, Groups: filtered, Rows: []Row{}}

	for _, g := range filtered {
		groupImgs := opt.GroupImages[g.Name]
		if mode == ModeFlat {
			for _, iv := range g.Variants {
				lay.Rows = append(lay.Rows, variantRow(iv, g.Name, iv.Variant.Name, false, groupImgs))
			}
			continue
		}

		expanded := opt.Expanded.Expanded(g.Name)
		lay.Rows = append(lay.Rows, Row{
			Kind:          RowGroup,
			Group:         g.Name,
			Count:         len(g.Variants),
			TotalQty:      g.TotalQty,
			Expanded:      expanded,
			OriginalIndex: -1,
			Images:        setImages(groupImgs),
		})
		if !expanded {
			continue
		}
		for _, iv := range g.Variants {
			lay.Rows = append(lay.Rows, variantRow(iv, g.Name, SubLabel(iv.Variant, opt.GroupBy), true, groupImgs))
		}
	}
	return lay
}

// SubLabel is the member-row label with the grouped axis stripped.
func SubLabel(v VariantRecord, groupBy string) string {
	attrs := ParseName(v.Name)
	delete(attrs, groupBy)
	if label := DisplayName(attrs); label != "" {
		return label
	}
	return "Default"
}

func filterGroups(groups []VariantGroup, search string) []VariantGroup {
	out := make([]VariantGroup, 0, len(groups))
	for _, g := range groups {
		kept := VariantGroup{Name: g.Name}
		for _, iv := range g.Variants {
			if Matches(iv.Variant, search) {
				kept.Variants = append(kept.Variants, iv)
				kept.TotalQty += StockQty(iv.Variant)
			}
		}
		if len(kept.Variants) == 0 {
			continue
		}
		out = append(out, kept)
	}
	return out
}

func variantRow(iv IndexedVariant, group, label string, nested bool, groupImgs []Image) Row {
	return Row{
		Kind:          RowVariant,
		Group:         group,
		OriginalIndex: iv.OriginalIndex,
		Label:         label,
		SKU:           iv.Variant.SKU,
		Nested:        nested,
		Images:        EffectiveImages(iv.Variant, groupImgs),
	}
}
