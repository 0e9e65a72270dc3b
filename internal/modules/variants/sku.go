package variants

import (
	"strings"

	"github.com/google/uuid"

	"pehlione.com/catalog/internal/shared/slug"
)

const (
	skuPrefixLen  = 6
	skuValueLen   = 4
	skuSuffixLen  = 4
	skuFallbackID = "SKU"
)

// SKUGenerator builds SKU codes like "TSHIRT-RED-M-3F9A". The suffix is
// random and is not checked against SKUs already issued.
type SKUGenerator struct {
	// Prefix overrides the product-name prefix when set.
	Prefix string
	// Suffix returns the random tail; nil uses a uuid fragment.
	Suffix func() string
}

func (g SKUGenerator) SKU(productName string, attrs map[string]string) string {
	prefix := slug.Code(g.Prefix, 0)
	if prefix == "" {
		prefix = slug.Code(productName, skuPrefixLen)
	}
	if prefix == "" {
		prefix = skuFallbackID
	}

	parts := []string{prefix}
	for _, k := range displayOrder(attrs) {
		if c := slug.Code(attrs[k], skuValueLen); c != "" {
			parts = append(parts, c)
		}
	}
	parts = append(parts, g.suffix())
	return strings.Join(parts, "-")
}

// FillSKUs returns a copy in which every variant with an empty SKU got a
// generated one. Existing SKUs are left alone.
func (g SKUGenerator) FillSKUs(productName string, vs []VariantRecord) []VariantRecord {
	out := make([]VariantRecord, len(vs))
	for i, v := range vs {
		out[i] = v
		if strings.TrimSpace(v.SKU) == "" {
			out[i].SKU = g.SKU(productName, AttributesOf(v))
		}
	}
	return out
}

func (g SKUGenerator) suffix() string {
	if g.Suffix != nil {
		return g.Suffix()
	}
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:skuSuffixLen])
}
