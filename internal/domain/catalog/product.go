package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. A product may
// carry attribute-based variants; when it does, the variant list order is
// significant for resolution tie-breaking.
type Product struct {
	ID           string
	Name         string
	Slug         string
	SellingPrice decimal.Decimal
	OfferPrice   decimal.Decimal
	Category     string
	Brand        string
	MainImage    string
	Status       string
	Variants     []Variant
}

// Variant is a concrete purchasable configuration of a product, defined by
// its combination of attribute selections, with its own price and optional
// image override.
type Variant struct {
	ID           string
	Attributes   []AttributeSelection
	SellingPrice decimal.Decimal
	Image        string
}

// AttributeSelection is one (attribute name, option value) pair on a variant,
// with an optional display label (e.g. a hex color for swatches).
type AttributeSelection struct {
	Attribute string
	Value     string
	Label     string
}

// Selection holds the shopper's current attribute picks for a product,
// keyed by attribute name. It may be partial or empty.
type Selection map[string]string

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	ListOffers(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
}
