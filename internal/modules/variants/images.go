package variants

// EffectiveImages is what a variant shows: its own images when it has any,
// otherwise the images set on its group. The two are never merged.
func EffectiveImages(v VariantRecord, groupImages []Image) []Image {
	if own := v.Images.Set(); len(own) > 0 {
		return own
	}
	return setImages(groupImages)
}

// ApplyGroupImages returns the indices of every variant whose group value
// under groupBy is groupName. The caller writes the images to all of them
// in one replacement (see AssignImages).
func ApplyGroupImages(groupName, groupBy string, all []VariantRecord) []int {
	var idx []int
	for i, v := range all {
		if GroupValue(v, groupBy) == groupName {
			idx = append(idx, i)
		}
	}
	return idx
}

// AssignImages returns a new slice in which every listed index carries
// images, capped to MaxImages. Out-of-range indices are ignored.
func AssignImages(all []VariantRecord, indices []int, images []Image) []VariantRecord {
	slots := CapImages(images)
	targets := indexSet(indices)
	out := make([]VariantRecord, len(all))
	for i, v := range all {
		out[i] = v
		if _, ok := targets[i]; ok {
			out[i].Images = slots
		}
	}
	return out
}

// CapImages packs the set images into slots, dropping anything past
// MaxImages.
func CapImages(images []Image) ImageSlots {
	var slots ImageSlots
	n := 0
	for _, im := range images {
		if !im.IsSet() {
			continue
		}
		if n == MaxImages {
			break
		}
		slots[n] = im
		n++
	}
	return slots
}

// CapGroupImages is CapImages for a group override, kept as a slice.
func CapGroupImages(images []Image) []Image {
	return CapImages(images).Set()
}

// ImageURLs lists the URLs of uploaded images, skipping pending files.
func ImageURLs(images []Image) []string {
	out := make([]string, 0, len(images))
	for _, im := range images {
		if im.URL != "" {
			out = append(out, im.URL)
		}
	}
	return out
}

func setImages(images []Image) []Image {
	out := make([]Image, 0, len(images))
	for _, im := range images {
		if im.IsSet() {
			out = append(out, im)
		}
	}
	return out
}

func indexSet(indices []int) map[int]struct{} {
	set := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		set[i] = struct{}{}
	}
	return set
}
