// Package exports writes the variant matrix as CSV or XLSX.
package exports

import (
	"strings"

	"pehlione.com/catalog/internal/modules/variants"
)

// Row is one exported variant. Images are the effective images, so a
// variant without its own images shows its group's.
type Row struct {
	Group         string `csv:"group"`
	Name          string `csv:"name"`
	SKU           string `csv:"sku"`
	Options       string `csv:"options"`
	MRP           string `csv:"mrp"`
	OfferPrice    string `csv:"offer_price"`
	CostPrice     string `csv:"cost_price"`
	StockStatus   string `csv:"stock_status"`
	StockQuantity int    `csv:"stock_quantity"`
	Images        string `csv:"images"`
	Description   string `csv:"description"`
}

var headers = []string{
	"Group", "Name", "SKU", "Options", "MRP", "Offer price", "Cost price",
	"Stock status", "Stock", "Images", "Description",
}

// Rows flattens the matrix in group order. With no groupBy every row
// lands in one group with an empty name.
func Rows(vs []variants.VariantRecord, groupBy string, groupImages map[string][]variants.Image) []Row {
	var out []Row
	for _, g := range variants.Group(vs, groupBy) {
		for _, iv := range g.Variants {
			v := iv.Variant
			out = append(out, Row{
				Group:         g.Name,
				Name:          v.Name,
				SKU:           v.SKU,
				Options:       variants.CanonicalKey(variants.AttributesOf(v)),
				MRP:           v.MRP,
				OfferPrice:    v.OfferPrice,
				CostPrice:     v.CostPrice,
				StockStatus:   string(v.StockStatus),
				StockQuantity: variants.StockQty(v),
				Images:        strings.Join(variants.ImageURLs(variants.EffectiveImages(v, groupImages[g.Name])), " "),
				Description:   v.Description,
			})
		}
	}
	return out
}

func totalStock(rows []Row) int {
	n := 0
	for _, r := range rows {
		n += r.StockQuantity
	}
	return n
}
