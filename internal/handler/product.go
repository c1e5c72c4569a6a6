package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront-engine/internal/domain/catalog"
)

// ListProducts serves the catalog. With ?offers=true only products carrying
// a positive offer price are returned.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var (
		products []catalog.Product
		err      error
	)
	if r.URL.Query().Get("offers") == "true" {
		products, err = h.products.ListOffers(r.Context())
	} else {
		products, err = h.products.List(r.Context())
	}
	if err != nil {
		logError(r, "list products", err)
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for i := range products {
				h.encodeProduct(e, &products[i])
			}
		})
	})
}

// GetProduct serves one product by slug, including its variants and the
// indexed attribute groups the storefront renders as option pickers.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		logError(r, "get product", err)
		writeError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	idx := catalog.IndexAttributes(p.Variants)

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("product", func(e *jx.Encoder) { h.encodeProduct(e, p) })
			e.Field("attributes", func(e *jx.Encoder) { encodeAttributeIndex(e, idx) })
		})
	})
}

// ResolveVariant resolves the shopper's attribute selection against a
// product and returns the effective unit price and display image. A
// selection that matches nothing is not an error: the variant is null and
// base product pricing applies.
func (h *Handler) ResolveVariant(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		logError(r, "get product", err)
		writeError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	var req struct {
		Selection map[string]string `json:"selection"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	v := catalog.Resolve(p.Variants, catalog.Selection(req.Selection))
	price := catalog.UnitPrice(p, v)
	image := catalog.DisplayImage(p, v)

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("variant", func(e *jx.Encoder) {
				if v == nil {
					e.Null()
					return
				}
				encodeVariant(e, v)
			})
			e.Field("price", func(e *jx.Encoder) { e.Str(price.String()) })
			e.Field("image", func(e *jx.Encoder) { e.Str(h.imageURL(image)) })
		})
	})
}

func (h *Handler) encodeProduct(e *jx.Encoder, p *catalog.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(p.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("slug", func(e *jx.Encoder) { e.Str(p.Slug) })
		e.Field("sellingPrice", func(e *jx.Encoder) { e.Str(p.SellingPrice.String()) })
		if p.OfferPrice.IsPositive() {
			e.Field("offerPrice", func(e *jx.Encoder) { e.Str(p.OfferPrice.String()) })
		}
		e.Field("category", func(e *jx.Encoder) { e.Str(p.Category) })
		if p.Brand != "" {
			e.Field("brand", func(e *jx.Encoder) { e.Str(p.Brand) })
		}
		e.Field("mainImage", func(e *jx.Encoder) { e.Str(h.imageURL(p.MainImage)) })
		e.Field("variants", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i := range p.Variants {
					encodeVariant(e, &p.Variants[i])
				}
			})
		})
	})
}

func encodeVariant(e *jx.Encoder, v *catalog.Variant) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(v.ID) })
		e.Field("sellingPrice", func(e *jx.Encoder) { e.Str(v.SellingPrice.String()) })
		if v.Image != "" {
			e.Field("image", func(e *jx.Encoder) { e.Str(v.Image) })
		}
		e.Field("attributes", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, a := range v.Attributes {
					e.Obj(func(e *jx.Encoder) {
						e.Field("attribute", func(e *jx.Encoder) { e.Str(a.Attribute) })
						e.Field("value", func(e *jx.Encoder) { e.Str(a.Value) })
						if a.Label != "" {
							e.Field("label", func(e *jx.Encoder) { e.Str(a.Label) })
						}
					})
				}
			})
		})
	})
}

// encodeAttributeIndex writes attribute groups as an ordered array, since
// first-seen ordering is part of the UI contract and JSON objects do not
// guarantee key order to every client.
func encodeAttributeIndex(e *jx.Encoder, idx catalog.AttributeIndex) {
	e.Arr(func(e *jx.Encoder) {
		for _, name := range idx.Attributes() {
			e.Obj(func(e *jx.Encoder) {
				e.Field("name", func(e *jx.Encoder) { e.Str(name) })
				e.Field("options", func(e *jx.Encoder) {
					e.Arr(func(e *jx.Encoder) {
						for _, opt := range idx.Options(name) {
							e.Obj(func(e *jx.Encoder) {
								e.Field("value", func(e *jx.Encoder) { e.Str(opt.Value) })
								e.Field("label", func(e *jx.Encoder) { e.Str(opt.Label) })
							})
						}
					})
				})
			})
		}
	})
}

func (h *Handler) imageURL(path string) string {
	if h.imageBaseURL == "" || path == "" || strings.HasPrefix(path, "http") {
		return path
	}
	return h.imageBaseURL + "/" + strings.TrimPrefix(path, "/")
}
