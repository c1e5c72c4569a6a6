package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func variant(id string, price int64, attrs ...AttributeSelection) Variant {
	return Variant{
		ID:           id,
		Attributes:   attrs,
		SellingPrice: decimal.NewFromInt(price),
	}
}

func attr(name, value string) AttributeSelection {
	return AttributeSelection{Attribute: name, Value: value}
}

func TestIndexAttributes(t *testing.T) {
	tests := []struct {
		name         string
		variants     []Variant
		wantNames    []string
		wantOptions  map[string][]string
	}{
		{
			name:        "no variants yields empty index",
			variants:    nil,
			wantNames:   nil,
			wantOptions: map[string][]string{},
		},
		{
			name: "single variant",
			variants: []Variant{
				variant("v1", 10, attr("Color", "Red"), attr("Size", "S")),
			},
			wantNames: []string{"Color", "Size"},
			wantOptions: map[string][]string{
				"Color": {"Red"},
				"Size":  {"S"},
			},
		},
		{
			name: "duplicate values collapse, first occurrence wins",
			variants: []Variant{
				variant("v1", 10, attr("Color", "Red"), attr("Size", "S")),
				variant("v2", 12, attr("Color", "Red"), attr("Size", "M")),
				variant("v3", 14, attr("Color", "Blue"), attr("Size", "S")),
			},
			wantNames: []string{"Color", "Size"},
			wantOptions: map[string][]string{
				"Color": {"Red", "Blue"},
				"Size":  {"S", "M"},
			},
		},
		{
			name: "attribute order follows discovery, not alphabet",
			variants: []Variant{
				variant("v1", 10, attr("Size", "XL")),
				variant("v2", 12, attr("Color", "Green"), attr("Size", "XL")),
			},
			wantNames: []string{"Size", "Color"},
			wantOptions: map[string][]string{
				"Size":  {"XL"},
				"Color": {"Green"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := IndexAttributes(tt.variants)

			assert.Equal(t, tt.wantNames, idx.Attributes())
			assert.Equal(t, len(tt.wantNames), idx.Len())

			for name, wantValues := range tt.wantOptions {
				opts := idx.Options(name)
				values := make([]string, len(opts))
				for i, o := range opts {
					values[i] = o.Value
				}
				assert.Equal(t, wantValues, values, "options for %s", name)
			}
		})
	}
}

func TestIndexAttributes_LabelFallback(t *testing.T) {
	variants := []Variant{
		{ID: "v1", Attributes: []AttributeSelection{
			{Attribute: "Color", Value: "Red", Label: "#ff0000"},
			{Attribute: "Size", Value: "M"},
		}},
	}

	idx := IndexAttributes(variants)

	colors := idx.Options("Color")
	require.Len(t, colors, 1)
	assert.Equal(t, "#ff0000", colors[0].Label)

	sizes := idx.Options("Size")
	require.Len(t, sizes, 1)
	assert.Equal(t, "M", sizes[0].Label, "missing label falls back to the value")
}

func TestIndexAttributes_NoDuplicatePairs(t *testing.T) {
	// Same value under the same attribute repeated across many variants must
	// appear exactly once, even with conflicting labels.
	variants := []Variant{
		{ID: "v1", Attributes: []AttributeSelection{{Attribute: "Color", Value: "Red", Label: "first"}}},
		{ID: "v2", Attributes: []AttributeSelection{{Attribute: "Color", Value: "Red", Label: "second"}}},
		{ID: "v3", Attributes: []AttributeSelection{{Attribute: "Color", Value: "Red"}}},
	}

	idx := IndexAttributes(variants)

	opts := idx.Options("Color")
	require.Len(t, opts, 1)
	assert.Equal(t, "first", opts[0].Label)
}
