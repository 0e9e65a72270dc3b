package variants

import "fmt"

// State is everything the variant screen keeps between events. It is plain
// data so session stores can serialize it.
type State struct {
	ProductID      string             `json:"product_id,omitempty"`
	ProductName    string             `json:"product_name"`
	Sections       []OptionSection    `json:"sections"`
	Variants       []VariantRecord    `json:"variants"`
	ActiveIndex    int                `json:"active_index"`
	GroupBy        string             `json:"group_by"`
	GroupImages    map[string][]Image `json:"group_images,omitempty"`
	Expanded       ExpandState        `json:"expanded,omitempty"`
	Search         string             `json:"search,omitempty"`
	PendingDeletes []string           `json:"pending_deletes,omitempty"`
}

// Editor applies admin events to a State. Each mutation builds a fresh
// variants slice; nothing is spliced in place. An Editor is not safe for
// concurrent use; session stores serialize access.
type Editor struct {
	st   State
	skus SKUGenerator
}

func NewEditor(st State, skus SKUGenerator) *Editor {
	if len(st.Sections) == 0 {
		st.Sections = []OptionSection{{Options: []OptionDefinition{{}}}}
	}
	return &Editor{st: st, skus: skus}
}

// State returns the current state. Callers must treat it as read-only.
func (e *Editor) State() State { return e.st }

// Hydrate loads persisted variants and rebuilds the option sections from
// them so a later Generate reproduces the same axes.
func (e *Editor) Hydrate(productID, productName string, items []PersistedVariant) {
	vs := Hydrate(items)
	e.st.ProductID = productID
	e.st.ProductName = productName
	e.st.Variants = vs
	e.st.ActiveIndex = 0
	e.st.PendingDeletes = nil
	if secs := sectionsFrom(vs); len(secs) > 0 {
		e.st.Sections = secs
		e.st.GroupBy = secs[0].Options[0].OptionName
	}
	e.observeGroups()
}

func (e *Editor) SetSections(sections []OptionSection) {
	e.st.Sections = cloneSections(sections)
}

func (e *Editor) AddSection() {
	secs := cloneSections(e.st.Sections)
	e.st.Sections = append(secs, OptionSection{Options: []OptionDefinition{{}}})
}

func (e *Editor) AddOption(section int) error {
	if section < 0 || section >= len(e.st.Sections) {
		return ErrSectionOutOfRange
	}
	secs := cloneSections(e.st.Sections)
	secs[section].Options = append(secs[section].Options, OptionDefinition{})
	e.st.Sections = secs
	return nil
}

func (e *Editor) SetOptionName(ref OptionRef, name string) error {
	return e.editOption(ref, func(o *OptionDefinition) { o.OptionName = name })
}

// SetValuesInput stores the raw buffer as the admin types it.
func (e *Editor) SetValuesInput(ref OptionRef, buf string) error {
	return e.editOption(ref, func(o *OptionDefinition) { o.ValuesInput = buf })
}

func (e *Editor) CommitChip(ref OptionRef) error {
	return e.editOption(ref, func(o *OptionDefinition) { o.ValuesInput = CommitTyping(o.ValuesInput) })
}

func (e *Editor) Backspace(ref OptionRef) error {
	return e.editOption(ref, func(o *OptionDefinition) { o.ValuesInput = UncommitLast(o.ValuesInput) })
}

func (e *Editor) RemoveChip(ref OptionRef, value string) error {
	return e.editOption(ref, func(o *OptionDefinition) { o.ValuesInput = RemoveChip(o.ValuesInput, value) })
}

func (e *Editor) RemoveOption(ref OptionRef) error {
	if err := e.checkRef(ref); err != nil {
		return err
	}
	secs := cloneSections(e.st.Sections)
	secs[ref.Section].Options = RemoveIndices(secs[ref.Section].Options, []int{ref.Option})
	e.st.Sections = secs
	return nil
}

// Generate rebuilds the matrix from the sections. It reports false and
// leaves the state untouched when no axis qualifies.
func (e *Editor) Generate() bool {
	m, ok := Generate(e.st.Sections, e.st.Variants)
	if !ok {
		return false
	}
	var removed []string
	for _, v := range e.st.Variants {
		if v.Persisted() {
			removed = append(removed, v.ID)
		}
	}
	e.st.PendingDeletes = append(append([]string(nil), e.st.PendingDeletes...), removed...)
	e.st.Variants = m.Variants
	e.st.ActiveIndex = m.ActiveIndex
	e.st.GroupBy = m.GroupBy
	e.observeGroups()
	return true
}

// VariantPatch carries the fields an admin edited; nil means unchanged.
type VariantPatch struct {
	SKU           *string `json:"sku"`
	MRP           *string `json:"mrp"`
	OfferPrice    *string `json:"offer_price"`
	CostPrice     *string `json:"cost_price"`
	Description   *string `json:"description"`
	StockStatus   *string `json:"stock_status"`
	StockQuantity *string `json:"stock_quantity"`
}

func (e *Editor) UpdateVariant(index int, p VariantPatch) error {
	if err := e.checkIndex(index); err != nil {
		return err
	}
	if p.StockStatus != nil && !StockStatus(*p.StockStatus).Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStockStatus, *p.StockStatus)
	}

	out := append([]VariantRecord(nil), e.st.Variants...)
	v := out[index].Clone()
	setIf(&v.SKU, p.SKU)
	setIf(&v.MRP, p.MRP)
	setIf(&v.OfferPrice, p.OfferPrice)
	setIf(&v.CostPrice, p.CostPrice)
	setIf(&v.Description, p.Description)
	setIf(&v.StockQuantity, p.StockQuantity)
	if p.StockStatus != nil {
		v.StockStatus = StockStatus(*p.StockStatus)
	}
	out[index] = v
	e.st.Variants = out
	e.st.ActiveIndex = index
	return nil
}

func (e *Editor) SetVariantImages(index int, images []Image) error {
	if err := e.checkIndex(index); err != nil {
		return err
	}
	e.st.Variants = AssignImages(e.st.Variants, []int{index}, images)
	return nil
}

// SetGroupImages stores the group override and writes it into every member
// of the group in a single replacement. It returns how many variants were
// touched.
func (e *Editor) SetGroupImages(group string, images []Image) int {
	capped := CapGroupImages(images)
	gi := make(map[string][]Image, len(e.st.GroupImages)+1)
	for k, v := range e.st.GroupImages {
		gi[k] = v
	}
	gi[group] = capped
	e.st.GroupImages = gi

	idx := ApplyGroupImages(group, e.st.GroupBy, e.st.Variants)
	e.st.Variants = AssignImages(e.st.Variants, idx, capped)
	return len(idx)
}

func (e *Editor) MoveOption(from, to OptionRef) {
	e.st.Sections = MoveOption(e.st.Sections, from, to)
}

func (e *Editor) MoveSection(from, to int) {
	e.st.Sections = MoveSection(e.st.Sections, from, to)
}

func (e *Editor) MoveVariant(from, to int) {
	e.st.Variants = MoveVariantWithinGroup(e.st.Variants, e.st.GroupBy, from, to)
}

// DeleteVariants removes the listed indices and returns the persisted IDs
// that must be deleted upstream. They are also queued in PendingDeletes
// until TakeDeletions is called.
func (e *Editor) DeleteVariants(indices []int) []string {
	rest, ids := RemoveVariants(e.st.Variants, indices)
	e.st.Variants = rest
	if e.st.ActiveIndex >= len(rest) {
		e.st.ActiveIndex = 0
	}
	e.st.PendingDeletes = append(append([]string(nil), e.st.PendingDeletes...), ids...)
	return ids
}

// ApplySaved copies server identities and stored image URLs from a
// submitted snapshot back into the state. Rows are matched by position and
// only taken over when they still describe the same option combination, so
// edits made while the submit was in flight survive. It returns how many
// rows were matched.
func (e *Editor) ApplySaved(saved []VariantRecord) int {
	out := append([]VariantRecord(nil), e.st.Variants...)
	n := 0
	for i := range out {
		if i >= len(saved) {
			break
		}
		if CanonicalKey(AttributesOf(out[i])) != CanonicalKey(AttributesOf(saved[i])) {
			continue
		}
		out[i].ID = saved[i].ID
		out[i].Images = saved[i].Images
		n++
	}
	e.st.Variants = out
	return n
}

// TakeDeletions returns and clears the queued upstream deletions.
func (e *Editor) TakeDeletions() []string {
	ids := e.st.PendingDeletes
	e.st.PendingDeletes = nil
	return ids
}

// SetGroupBy switches the group-by axis. An empty axis turns grouping off.
func (e *Editor) SetGroupBy(axis string) error {
	if axis != "" && !e.hasAxis(axis) {
		return fmt.Errorf("%w: %q", ErrUnknownGroupBy, axis)
	}
	e.st.GroupBy = axis
	e.observeGroups()
	return nil
}

func (e *Editor) ToggleGroup(name string) {
	e.st.Expanded = e.st.Expanded.Toggle(name)
}

func (e *Editor) SetSearch(q string) { e.st.Search = q }

func (e *Editor) FillSKUs() {
	e.st.Variants = e.skus.FillSKUs(e.st.ProductName, e.st.Variants)
}

// Layout computes the table for the current state.
func (e *Editor) Layout() Layout {
	return Present(e.st.Variants, PresentOptions{
		GroupBy:     e.st.GroupBy,
		Search:      e.st.Search,
		Expanded:    e.st.Expanded,
		GroupImages: e.st.GroupImages,
	})
}

// Axes lists the option names the current variants can be grouped by.
func (e *Editor) Axes() []string {
	var out []string
	seen := map[string]struct{}{}
	for _, v := range e.st.Variants {
		for _, k := range displayOrder(ParseName(v.Name)) {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}

func (e *Editor) hasAxis(axis string) bool {
	for _, a := range e.Axes() {
		if a == axis {
			return true
		}
	}
	return false
}

func (e *Editor) observeGroups() {
	e.st.Expanded = e.st.Expanded.Observe(GroupNames(Group(e.st.Variants, e.st.GroupBy)))
}

func (e *Editor) editOption(ref OptionRef, fn func(*OptionDefinition)) error {
	if err := e.checkRef(ref); err != nil {
		return err
	}
	secs := cloneSections(e.st.Sections)
	fn(&secs[ref.Section].Options[ref.Option])
	e.st.Sections = secs
	return nil
}

func (e *Editor) checkRef(ref OptionRef) error {
	if ref.Section < 0 || ref.Section >= len(e.st.Sections) {
		return ErrSectionOutOfRange
	}
	if ref.Option < 0 || ref.Option >= len(e.st.Sections[ref.Section].Options) {
		return ErrOptionOutOfRange
	}
	return nil
}

func (e *Editor) checkIndex(i int) error {
	if i < 0 || i >= len(e.st.Variants) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return nil
}

// sectionsFrom rebuilds one option section from hydrated variants, axes in
// display order and values in first-seen order.
func sectionsFrom(vs []VariantRecord) []OptionSection {
	var order []string
	values := map[string][]string{}
	for _, v := range vs {
		for _, k := range displayOrder(v.Options) {
			val := v.Options[k]
			if _, ok := values[k]; !ok {
				order = append(order, k)
			}
			if !containsString(values[k], val) {
				values[k] = append(values[k], val)
			}
		}
	}
	if len(order) == 0 {
		return nil
	}
	sec := OptionSection{}
	for _, k := range order {
		sec.Options = append(sec.Options, OptionDefinition{
			OptionName:  k,
			ValuesInput: serializeChips(values[k]),
		})
	}
	return []OptionSection{sec}
}

func setIf(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
