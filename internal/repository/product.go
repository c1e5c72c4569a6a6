package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-engine/internal/domain/catalog"
)

const (
	productColumns = `id, name, slug, selling_price, offer_price, category, brand, main_image, status, variants`

	listProductsSQL = `SELECT ` + productColumns + `
		FROM products WHERE status <> 'Inactive' ORDER BY created_at DESC, id`

	listOffersSQL = `SELECT ` + productColumns + `
		FROM products WHERE status <> 'Inactive' AND offer_price > 0 ORDER BY created_at DESC, id`

	getProductByIDSQL = `SELECT ` + productColumns + `
		FROM products WHERE id = $1`

	getProductBySlugSQL = `SELECT ` + productColumns + `
		FROM products WHERE slug = $1`

	getProductsByIDsSQL = `SELECT ` + productColumns + `
		FROM products WHERE id = ANY($1)`
)

var _ catalog.Repository = (*ProductRepository)(nil)

// ProductRepository implements catalog.Repository backed by PostgreSQL.
// Variants are stored as a JSONB document on the product row, preserving
// the source order the resolution tie-break depends on.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all active products, newest first.
func (r *ProductRepository) List(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// ListOffers returns active products with a positive offer price.
func (r *ProductRepository) ListOffers(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, listOffersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing offer products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	return r.getOne(ctx, getProductByIDSQL, id)
}

// GetBySlug returns a single product by its URL slug.
func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	return r.getOne(ctx, getProductBySlugSQL, slug)
}

// GetByIDs returns products matching any of the given IDs.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

func (r *ProductRepository) getOne(ctx context.Context, sql, arg string) (*catalog.Product, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", arg, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", arg, err)
	}
	return &p, nil
}

// variantDoc is the JSONB shape of one variant on a product row.
type variantDoc struct {
	ID           string          `json:"id"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	Image        string          `json:"image,omitempty"`
	Attributes   []attributeDoc  `json:"attributes"`
}

type attributeDoc struct {
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
	Label     string `json:"label,omitempty"`
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var (
		p           catalog.Product
		variantsRaw []byte
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.SellingPrice, &p.OfferPrice,
		&p.Category, &p.Brand, &p.MainImage, &p.Status, &variantsRaw,
	)
	if err != nil {
		return p, err
	}

	var docs []variantDoc
	if err := json.Unmarshal(variantsRaw, &docs); err != nil {
		return p, fmt.Errorf("decoding variants for product %q: %w", p.ID, err)
	}
	p.Variants = variantsFromDocs(docs)
	return p, nil
}

func variantsFromDocs(docs []variantDoc) []catalog.Variant {
	if len(docs) == 0 {
		return nil
	}
	variants := make([]catalog.Variant, len(docs))
	for i, d := range docs {
		attrs := make([]catalog.AttributeSelection, len(d.Attributes))
		for j, a := range d.Attributes {
			attrs[j] = catalog.AttributeSelection{
				Attribute: a.Attribute,
				Value:     a.Value,
				Label:     a.Label,
			}
		}
		variants[i] = catalog.Variant{
			ID:           d.ID,
			Attributes:   attrs,
			SellingPrice: d.SellingPrice,
			Image:        d.Image,
		}
	}
	return variants
}

// MarshalVariants serializes variants to the JSONB document shape. It is
// shared with the seed tool.
func MarshalVariants(variants []catalog.Variant) ([]byte, error) {
	docs := make([]variantDoc, len(variants))
	for i, v := range variants {
		attrs := make([]attributeDoc, len(v.Attributes))
		for j, a := range v.Attributes {
			attrs[j] = attributeDoc{Attribute: a.Attribute, Value: a.Value, Label: a.Label}
		}
		docs[i] = variantDoc{
			ID:           v.ID,
			SellingPrice: v.SellingPrice,
			Image:        v.Image,
			Attributes:   attrs,
		}
	}
	return json.Marshal(docs)
}
