package catalog

// Option is a distinct selectable value for one attribute of a product.
// Option identity is the (attribute, value) pair, not a generated ID.
type Option struct {
	Value string
	Label string
}

// AttributeIndex maps attribute names to their selectable options,
// preserving the order both were first seen in the variant list. That order
// is user-visible: the storefront renders attribute groups and option chips
// exactly as indexed, not sorted.
type AttributeIndex struct {
	names   []string
	options map[string][]Option
}

// IndexAttributes walks variants in source order and collects the distinct
// options per attribute. The first occurrence of a value wins; later
// occurrences of the same (attribute, value) pair are skipped even when
// their display label differs.
func IndexAttributes(variants []Variant) AttributeIndex {
	idx := AttributeIndex{options: make(map[string][]Option)}
	for _, v := range variants {
		for _, attr := range v.Attributes {
			opts, seen := idx.options[attr.Attribute]
			if !seen {
				idx.names = append(idx.names, attr.Attribute)
			}
			if containsValue(opts, attr.Value) {
				continue
			}
			label := attr.Label
			if label == "" {
				label = attr.Value
			}
			idx.options[attr.Attribute] = append(opts, Option{Value: attr.Value, Label: label})
		}
	}
	return idx
}

// Attributes returns attribute names in first-seen order.
func (idx AttributeIndex) Attributes() []string {
	return idx.names
}

// Options returns the options for one attribute in first-seen order,
// or nil when the attribute is unknown.
func (idx AttributeIndex) Options(attribute string) []Option {
	return idx.options[attribute]
}

// Len returns the number of distinct attributes in the index.
func (idx AttributeIndex) Len() int {
	return len(idx.names)
}

func containsValue(opts []Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}
