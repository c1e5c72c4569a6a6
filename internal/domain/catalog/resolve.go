package catalog

// Resolve finds the variant matching the shopper's attribute selection.
//
// An empty selection resolves to nil: no variant is implied and base product
// pricing applies. Otherwise variants are scanned in source order and the
// first one whose attribute combination contains every selected
// (attribute, value) pair is returned. A variant may carry attributes the
// shopper has not picked yet; that still matches, so a partial selection
// resolves to the earliest compatible variant. When no variant is
// compatible, Resolve returns nil.
//
// Resolution is a pure full re-run over its inputs. Callers must re-invoke
// it with the complete selection after every pick rather than patching a
// previous result.
func Resolve(variants []Variant, selection Selection) *Variant {
	if len(selection) == 0 {
		return nil
	}
	for i := range variants {
		if matches(&variants[i], selection) {
			return &variants[i]
		}
	}
	return nil
}

// matches reports whether every entry of selection has an equal
// (attribute, value) pair on the variant.
func matches(v *Variant, selection Selection) bool {
	for attribute, value := range selection {
		if !hasAttribute(v, attribute, value) {
			return false
		}
	}
	return true
}

func hasAttribute(v *Variant, attribute, value string) bool {
	for _, attr := range v.Attributes {
		if attr.Attribute == attribute && attr.Value == value {
			return true
		}
	}
	return false
}
