// Package handler serves the storefront API over HTTP, delegating business
// logic to the domain services and repositories.
package handler

import (
	"context"
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/xenking/storefront-engine/internal/domain/cart"
	"github.com/xenking/storefront-engine/internal/domain/catalog"
	"github.com/xenking/storefront-engine/internal/domain/checkout"
	"github.com/xenking/storefront-engine/internal/domain/order"
)

// OrderSubmitter runs one exclusive order submission attempt.
type OrderSubmitter interface {
	Submit(ctx context.Context, req order.SubmitRequest) (*order.Receipt, error)
}

// CartQuoter prices a user's cart and aggregates totals without submitting.
type CartQuoter interface {
	Quote(ctx context.Context, userID string, opt checkout.DeliveryOption, code string) ([]cart.Line, checkout.Totals, string, error)
}

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in product
	// responses. When empty, image paths are returned as stored.
	ImageBaseURL string
}

// Handler implements the storefront HTTP API.
type Handler struct {
	products     catalog.Repository
	quoter       CartQuoter
	submitter    OrderSubmitter
	validate     *validator.Validate
	imageBaseURL string
}

// New constructs a Handler with the required domain dependencies.
func New(cfg Config, products catalog.Repository, quoter CartQuoter, submitter OrderSubmitter) *Handler {
	return &Handler{
		products:     products,
		quoter:       quoter,
		submitter:    submitter,
		validate:     validator.New(),
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Register attaches all API routes to the mux. The security middleware
// guards the mutating order route; reads stay public.
func (h *Handler) Register(mux *http.ServeMux, sec *SecurityHandler) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{slug}", h.GetProduct)
	mux.HandleFunc("POST /api/products/{slug}/resolve", h.ResolveVariant)
	mux.HandleFunc("GET /api/cart/{userID}/totals", h.CartTotals)
	mux.Handle("POST /api/orders", sec.RequireAPIKey(http.HandlerFunc(h.SubmitOrder)))
}

// writeJSON encodes a response body built by fn and writes it with the
// given status code.
func writeJSON(w http.ResponseWriter, status int, fn func(e *jx.Encoder)) {
	var e jx.Encoder
	fn(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes the standard {code, message} error body.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Int(status) })
			e.Field("message", func(e *jx.Encoder) { e.Str(message) })
		})
	})
}

// logError records a handler failure on the request-scoped logger.
func logError(r *http.Request, msg string, err error) {
	zctx.From(r.Context()).Error(msg, zap.Error(err))
}
