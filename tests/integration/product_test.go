//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != seedProducts {
		t.Fatalf("expected %d products, got %d", seedProducts, len(products))
	}
}

func TestListProducts_OffersOnly(t *testing.T) {
	resp := doGet(t, "/api/products?offers=true")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) == 0 {
		t.Fatal("expected at least one product with an offer")
	}
	for _, p := range products {
		if p.OfferPrice == "" || p.OfferPrice == "0" {
			t.Errorf("product %s has no positive offer price", p.ID)
		}
	}
}

func TestGetProduct_AttributeGroups(t *testing.T) {
	resp := doGet(t, "/api/products/trail-runner-shoe")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	detail := decodeJSON[productDetailResponse](t, resp)
	if detail.Product.ID != "prod-trail-shoe" {
		t.Fatalf("unexpected product id %q", detail.Product.ID)
	}

	// Attribute groups keep first-seen order: Size before Color.
	if len(detail.Attributes) != 2 {
		t.Fatalf("expected 2 attribute groups, got %d", len(detail.Attributes))
	}
	if detail.Attributes[0].Name != "Size" {
		t.Errorf("first attribute group: got %q, want Size", detail.Attributes[0].Name)
	}
	if detail.Attributes[1].Name != "Color" {
		t.Errorf("second attribute group: got %q, want Color", detail.Attributes[1].Name)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	resp := doGet(t, "/api/products/no-such-slug")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Message == "" {
		t.Error("expected error message")
	}
}

func TestResolveVariant_Match(t *testing.T) {
	resp := doPost(t, "/api/products/trail-runner-shoe/resolve", map[string]any{
		"selection": map[string]string{"Size": "42", "Color": "red"},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[resolveResponse](t, resp)
	if body.Variant == nil {
		t.Fatal("expected a resolved variant")
	}
	if body.Variant.ID != "var-trail-42-red" {
		t.Errorf("variant: got %q, want var-trail-42-red", body.Variant.ID)
	}
	// The variant carries its own price, which overrides the offer.
	if body.Price != "95" {
		t.Errorf("price: got %q, want 95", body.Price)
	}
}

func TestResolveVariant_VariantWithoutPriceFallsBack(t *testing.T) {
	resp := doPost(t, "/api/products/trail-runner-shoe/resolve", map[string]any{
		"selection": map[string]string{"Size": "43", "Color": "blue"},
	})
	defer resp.Body.Close()

	body := decodeJSON[resolveResponse](t, resp)
	if body.Variant == nil {
		t.Fatal("expected a resolved variant")
	}
	// Variant price is zero, so the product offer price applies.
	if body.Price != "80" {
		t.Errorf("price: got %q, want 80", body.Price)
	}
}

func TestResolveVariant_NoMatch(t *testing.T) {
	resp := doPost(t, "/api/products/trail-runner-shoe/resolve", map[string]any{
		"selection": map[string]string{"Size": "44"},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[resolveResponse](t, resp)
	if body.Variant != nil {
		t.Errorf("expected null variant, got %q", body.Variant.ID)
	}
	if body.Price != "80" {
		t.Errorf("price: got %q, want 80", body.Price)
	}
}
