package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront-engine/internal/domain/cart"
	"github.com/xenking/storefront-engine/internal/domain/checkout"
)

// CartTotals prices the user's cart and returns aggregated totals for the
// given delivery option and optional discount code. The storefront calls
// this on every delivery or code change; totals are always recomputed from
// scratch. An invalid code yields zero discount plus a discountError field
// rather than a failure.
func (h *Handler) CartTotals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	deliveryRaw := q.Get("delivery")
	if deliveryRaw == "" {
		deliveryRaw = string(checkout.DeliveryInsideZone)
	}
	delivery, err := checkout.ParseDeliveryOption(deliveryRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	lines, totals, discountNote, err := h.quoter.Quote(r.Context(),
		r.PathValue("userID"), delivery, q.Get("code"))
	if err != nil {
		if errors.Is(err, checkout.ErrUnknownDeliveryOption) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logError(r, "quote cart", err)
		writeError(w, http.StatusInternalServerError, "failed to compute totals")
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("lines", func(e *jx.Encoder) { encodeLines(e, lines) })
			e.Field("subTotal", func(e *jx.Encoder) { e.Str(totals.Subtotal.String()) })
			e.Field("shippingFee", func(e *jx.Encoder) { e.Str(totals.ShippingFee.String()) })
			e.Field("discount", func(e *jx.Encoder) { e.Str(totals.Discount.String()) })
			e.Field("grandTotal", func(e *jx.Encoder) { e.Str(totals.GrandTotal.String()) })
			if discountNote != "" {
				e.Field("discountError", func(e *jx.Encoder) { e.Str(discountNote) })
			}
		})
	})
}

func encodeLines(e *jx.Encoder, lines []cart.Line) {
	e.Arr(func(e *jx.Encoder) {
		for _, l := range lines {
			e.Obj(func(e *jx.Encoder) {
				e.Field("id", func(e *jx.Encoder) { e.Str(l.ID) })
				e.Field("product", func(e *jx.Encoder) { e.Str(l.ProductID) })
				if l.VariantID != "" {
					e.Field("variant", func(e *jx.Encoder) { e.Str(l.VariantID) })
				}
				e.Field("quantity", func(e *jx.Encoder) { e.Int(l.Quantity) })
				e.Field("unitPrice", func(e *jx.Encoder) { e.Str(l.UnitPrice.String()) })
				e.Field("subtotal", func(e *jx.Encoder) { e.Str(l.Subtotal().String()) })
			})
		}
	})
}
