package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-playground/validator/v10"

	"github.com/xenking/storefront-engine/internal/domain/checkout"
	"github.com/xenking/storefront-engine/internal/domain/order"
	"github.com/xenking/storefront-engine/internal/gateway"
)

// orderRequest is the checkout submission body. Totals are intentionally
// absent: the server recomputes them from the live cart.
type orderRequest struct {
	User           string `json:"user" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Phone          string `json:"phone" validate:"required,min=6"`
	Address        string `json:"address" validate:"required"`
	DeliveryOption string `json:"deliveryOption" validate:"required,oneof=insideZone outsideZone"`
	Code           string `json:"code"`
	PaymentType    string `json:"paymentType" validate:"required,oneof=online cod"`
}

// SubmitOrder runs one checkout submission attempt.
func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeError(w, http.StatusBadRequest, "invalid field: "+verrs[0].Field())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	receipt, err := h.submitter.Submit(r.Context(), order.SubmitRequest{
		UserID: req.User,
		Recipient: order.Recipient{
			Name:    req.Name,
			Phone:   req.Phone,
			Address: req.Address,
		},
		DeliveryOption: checkout.DeliveryOption(req.DeliveryOption),
		DiscountCode:   req.Code,
		PaymentKind:    order.PaymentKind(req.PaymentType),
	})
	if err != nil {
		h.writeSubmitError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("success", func(e *jx.Encoder) { e.Bool(true) })
			e.Field("message", func(e *jx.Encoder) { e.Str(receipt.Message) })
			e.Field("data", func(e *jx.Encoder) {
				e.Obj(func(e *jx.Encoder) {
					e.Field("order", func(e *jx.Encoder) { e.Str(receipt.OrderID) })
					if receipt.GatewayURL != "" {
						e.Field("gatewayUrl", func(e *jx.Encoder) { e.Str(receipt.GatewayURL) })
					}
				})
			})
			if receipt.DiscountNote != "" {
				e.Field("discountError", func(e *jx.Encoder) { e.Str(receipt.DiscountNote) })
			}
		})
	})
}

// writeSubmitError maps submission failures to HTTP responses. Business
// rejections carry the collaborator's message verbatim; transport failures
// get a generic message so gateway internals never leak to shoppers.
func (h *Handler) writeSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrSubmissionInFlight):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrUnknownPaymentKind),
		errors.Is(err, checkout.ErrUnknownDeliveryOption):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, gateway.ErrUnavailable):
		logError(r, "submit order", err)
		writeError(w, http.StatusBadGateway, "payment gateway unavailable, please try again")
	default:
		var rejected *gateway.RejectedError
		if errors.As(err, &rejected) {
			writeError(w, http.StatusUnprocessableEntity, rejected.Message)
			return
		}
		logError(r, "submit order", err)
		writeError(w, http.StatusInternalServerError, "failed to create order")
	}
}
