package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-engine/internal/domain/catalog"
	"github.com/xenking/storefront-engine/internal/repository"
)

type productJSON struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	OfferPrice   decimal.Decimal `json:"offerPrice"`
	Category     string          `json:"category"`
	Brand        string          `json:"brand"`
	MainImage    string          `json:"mainImage"`
	Status       string          `json:"status"`
	Variants     []struct {
		ID         string `json:"id"`
		Attributes []struct {
			Attribute string `json:"attribute"`
			Value     string `json:"value"`
			Label     string `json:"label"`
		} `json:"attributes"`
		SellingPrice decimal.Decimal `json:"sellingPrice"`
		Image        string          `json:"image"`
	} `json:"variants"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
		apiKey       string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&apiKey, "api-key", "", "API key to seed (or SHOP_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or SHOP_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("SHOP_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or SHOP_SEED_API_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("SHOP_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, apiKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, apiKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, pool, productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedDiscounts(ctx, pool); err != nil {
		return errors.Wrap(err, "seed discounts")
	}

	if err := seedDemoCart(ctx, pool); err != nil {
		return errors.Wrap(err, "seed demo cart")
	}

	if err := seedAPIKey(ctx, pool, apiKey, pepper); err != nil {
		return errors.Wrap(err, "seed api key")
	}

	return nil
}

const upsertProductSQL = `
INSERT INTO products (id, name, slug, selling_price, offer_price, category, brand, main_image, status, variants)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    slug = EXCLUDED.slug,
    selling_price = EXCLUDED.selling_price,
    offer_price = EXCLUDED.offer_price,
    category = EXCLUDED.category,
    brand = EXCLUDED.brand,
    main_image = EXCLUDED.main_image,
    status = EXCLUDED.status,
    variants = EXCLUDED.variants`

func seedProducts(ctx context.Context, pool *pgxpool.Pool, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		variants := make([]catalog.Variant, len(p.Variants))
		for i, v := range p.Variants {
			attrs := make([]catalog.AttributeSelection, len(v.Attributes))
			for j, a := range v.Attributes {
				attrs[j] = catalog.AttributeSelection{
					Attribute: a.Attribute,
					Value:     a.Value,
					Label:     a.Label,
				}
			}
			variants[i] = catalog.Variant{
				ID:           v.ID,
				Attributes:   attrs,
				SellingPrice: v.SellingPrice,
				Image:        v.Image,
			}
		}

		variantsJSON, err := repository.MarshalVariants(variants)
		if err != nil {
			return errors.Wrapf(err, "marshal variants for %s", p.ID)
		}

		status := p.Status
		if status == "" {
			status = "Active"
		}

		if _, err := pool.Exec(ctx, upsertProductSQL,
			p.ID, p.Name, p.Slug, p.SellingPrice, p.OfferPrice,
			p.Category, p.Brand, p.MainImage, status, variantsJSON,
		); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

const upsertDiscountSQL = `
INSERT INTO discount_rules (code, discount_type, value, min_items, description)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (code) DO UPDATE SET
    discount_type = EXCLUDED.discount_type,
    value = EXCLUDED.value,
    min_items = EXCLUDED.min_items,
    description = EXCLUDED.description`

func seedDiscounts(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding demo discount rules")

	rules := []struct {
		code         string
		discountType string
		value        decimal.Decimal
		minItems     int
		description  string
	}{
		{"WELCOME10", "percentage", decimal.NewFromInt(10), 0, "Welcome: 10% off entire order"},
		{"SAVE50", "fixed", decimal.NewFromInt(50), 2, "50 off when buying 2+ items"},
	}

	for _, r := range rules {
		if _, err := pool.Exec(ctx, upsertDiscountSQL,
			r.code, r.discountType, r.value, r.minItems, r.description,
		); err != nil {
			return errors.Wrapf(err, "upsert discount %s", r.code)
		}

		slog.Info("upserted discount", slog.String("code", r.code), slog.String("description", r.description))
	}

	return nil
}

const upsertCartLineSQL = `
INSERT INTO cart_lines (id, user_id, product_id, selection, quantity)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
    product_id = EXCLUDED.product_id,
    selection = EXCLUDED.selection,
    quantity = EXCLUDED.quantity`

// seedDemoCart fills a cart for the demo user so totals and checkout can be
// exercised right after seeding.
func seedDemoCart(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding demo cart")

	lines := []struct {
		id        string
		productID string
		selection map[string]string
		quantity  int
	}{
		{"cart-demo-1", "prod-trail-shoe", map[string]string{"Size": "42", "Color": "red"}, 1},
		{"cart-demo-2", "prod-canvas-tote", nil, 2},
	}

	for _, l := range lines {
		selection, err := json.Marshal(l.selection)
		if err != nil {
			return errors.Wrapf(err, "marshal selection for %s", l.id)
		}
		if l.selection == nil {
			selection = []byte(`{}`)
		}

		if _, err := pool.Exec(ctx, upsertCartLineSQL,
			l.id, "demo-user", l.productID, selection, l.quantity,
		); err != nil {
			return errors.Wrapf(err, "upsert cart line %s", l.id)
		}
	}

	return nil
}

const upsertAPIKeySQL = `
INSERT INTO api_keys (id, key_hash, name, scopes)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
    key_hash = EXCLUDED.key_hash,
    name = EXCLUDED.name,
    scopes = EXCLUDED.scopes`

func seedAPIKey(ctx context.Context, pool *pgxpool.Pool, apiKey, pepper string) error {
	slog.Info("seeding default API key")

	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(apiKey))
	keyHash := hex.EncodeToString(mac.Sum(nil))

	if _, err := pool.Exec(ctx, upsertAPIKeySQL,
		"default", keyHash, "Default storefront key", []string{"create_order"},
	); err != nil {
		return errors.Wrap(err, "upsert default API key")
	}

	slog.Info("upserted API key", slog.String("id", "default"))

	return nil
}
