package variants

import "fmt"

// PersistedVariant is the shape a loader hands back for an already saved
// variant.
type PersistedVariant struct {
	ID             string            `json:"_id"`
	Options        map[string]string `json:"options"`
	SKU            string            `json:"sku"`
	Price          string            `json:"price"`
	CompareAtPrice string            `json:"compareAtPrice"`
	CostPrice      string            `json:"costPrice,omitempty"`
	Description    string            `json:"description,omitempty"`
	Quantity       string            `json:"quantity"`
	StockStatus    string            `json:"stockStatus,omitempty"`
	Images         []string          `json:"images"`
}

// Hydrate maps persisted variants into editable records. Variants without
// options are named "Variant {n}", 1-based.
func Hydrate(items []PersistedVariant) []VariantRecord {
	out := make([]VariantRecord, 0, len(items))
	for i, p := range items {
		opts := copyAttrs(p.Options)
		name := DisplayName(opts)
		if name == "" {
			name = fmt.Sprintf("Variant %d", i+1)
		}

		imgs := make([]Image, 0, len(p.Images))
		for _, u := range p.Images {
			imgs = append(imgs, URLImage(u))
		}

		status := StockStatus(p.StockStatus)
		if !status.Valid() {
			status = InStock
		}
		qty := p.Quantity
		if qty == "" {
			qty = defaultStockQuantity
		}

		out = append(out, VariantRecord{
			ID:            p.ID,
			Name:          name,
			Options:       opts,
			SKU:           p.SKU,
			MRP:           p.CompareAtPrice,
			OfferPrice:    p.Price,
			CostPrice:     p.CostPrice,
			Description:   p.Description,
			Images:        CapImages(imgs),
			StockStatus:   status,
			StockQuantity: qty,
		})
	}
	return out
}

// RemoveVariants drops the listed indices and reports the persisted IDs
// among them, which the caller must delete upstream. The local removal
// stands whatever happens upstream.
func RemoveVariants(vs []VariantRecord, indices []int) (rest []VariantRecord, persistedIDs []string) {
	del := indexSet(indices)
	for i, v := range vs {
		if _, gone := del[i]; gone && v.Persisted() {
			persistedIDs = append(persistedIDs, v.ID)
		}
	}
	return RemoveIndices(vs, indices), persistedIDs
}
