package variants

import "strings"

// MaxImages is the number of image slots a variant (or a group override) carries.
const MaxImages = 5

// StockStatus is the availability flag shown next to a variant.
type StockStatus string

const (
	InStock     StockStatus = "instock"
	OutOfStock  StockStatus = "outofstock"
	OnBackorder StockStatus = "onbackorder"
)

func (s StockStatus) Valid() bool {
	switch s {
	case InStock, OutOfStock, OnBackorder:
		return true
	}
	return false
}

// AxisRole tags the axis names that get special treatment when ordering
// display names. Anything that is not a color or size axis is RoleOther.
type AxisRole int

const (
	RoleOther AxisRole = iota
	RoleColor
	RoleSize
)

func RoleOf(axis string) AxisRole {
	switch strings.ToLower(strings.TrimSpace(axis)) {
	case "color", "colour":
		return RoleColor
	case "size":
		return RoleSize
	default:
		return RoleOther
	}
}

// OptionDefinition is one user-typed axis. ValuesInput is the raw chip
// buffer, not a clean list; see ParseChips.
type OptionDefinition struct {
	OptionName  string `json:"option_name"`
	ValuesInput string `json:"values_input"`
}

type OptionSection struct {
	Options []OptionDefinition `json:"options"`
}

// FileRef is a binary image that has not been uploaded to storage yet.
type FileRef struct {
	Path        string `json:"path"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
}

// Image is one slot value: a stored URL, a pending file, or nothing.
type Image struct {
	URL  string   `json:"url,omitempty"`
	File *FileRef `json:"file,omitempty"`
}

func (im Image) IsSet() bool {
	return im.URL != "" || im.File != nil
}

func URLImage(url string) Image { return Image{URL: url} }

type ImageSlots [MaxImages]Image

// Set returns the non-empty slots in slot order.
func (s ImageSlots) Set() []Image {
	out := make([]Image, 0, MaxImages)
	for _, im := range s {
		if im.IsSet() {
			out = append(out, im)
		}
	}
	return out
}

func (s ImageSlots) Empty() bool {
	for _, im := range s {
		if im.IsSet() {
			return false
		}
	}
	return true
}

// VariantRecord is one sellable row of the matrix. Prices and quantity are
// kept as the strings the admin typed; the products module converts them.
type VariantRecord struct {
	ID            string            `json:"id,omitempty"`
	Name          string            `json:"name"`
	Options       map[string]string `json:"options"`
	SKU           string            `json:"sku"`
	MRP           string            `json:"mrp"`
	OfferPrice    string            `json:"offer_price"`
	CostPrice     string            `json:"cost_price"`
	Description   string            `json:"description"`
	Images        ImageSlots        `json:"images"`
	StockStatus   StockStatus       `json:"stock_status"`
	StockQuantity string            `json:"stock_quantity"`
}

// Persisted reports whether the record already has a server-side identity.
func (v VariantRecord) Persisted() bool { return v.ID != "" }

// Clone returns a copy that shares no maps with v.
func (v VariantRecord) Clone() VariantRecord {
	c := v
	if v.Options != nil {
		c.Options = make(map[string]string, len(v.Options))
		for k, val := range v.Options {
			c.Options[k] = val
		}
	}
	return c
}

// Axis is a qualifying option: trimmed name plus committed values.
type Axis struct {
	Name   string
	Values []string
}

// IndexedVariant pairs a variant with its position in the authoritative slice.
type IndexedVariant struct {
	OriginalIndex int           `json:"original_index"`
	Variant       VariantRecord `json:"variant"`
}

type VariantGroup struct {
	Name     string           `json:"name"`
	Variants []IndexedVariant `json:"variants"`
	TotalQty int              `json:"total_qty"`
}
