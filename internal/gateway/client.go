// Package gateway implements the payment-gateway collaborator: a single
// request-response exchange that trades an order for a hosted payment
// session URL.
package gateway

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/xenking/storefront-engine/internal/domain/order"
)

// ErrUnavailable marks transport-level failures: connection errors,
// timeouts, and undecodable responses. Callers present a generic message
// for these instead of gateway output.
var ErrUnavailable = errors.New("payment gateway unavailable")

// RejectedError is a business-rule rejection from the gateway. Its message
// comes verbatim from the collaborator and is safe to show the shopper.
// Transport and decode failures wrap ErrUnavailable instead, kept distinct
// so callers can present a generic message.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}

// Client talks to the payment gateway over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a gateway client for the given base URL. The transport
// is otel-instrumented and the exchange is bounded by a request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

var _ order.Gateway = (*Client)(nil)

// CreateSession posts the assembled order payload and returns the redirect
// URL. The gateway answers {success, message, data:{gatewayUrl}};
// success=false becomes a RejectedError carrying the gateway's message.
func (c *Client) CreateSession(ctx context.Context, orderID string, p order.Payload) (string, error) {
	body := encodeSessionRequest(orderID, p)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/sessions", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build gateway request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrapf(ErrUnavailable, "request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.Wrapf(ErrUnavailable, "read response: %v", err)
	}

	sr, err := decodeSessionResponse(raw)
	if err != nil {
		return "", errors.Wrapf(ErrUnavailable, "decode response (status %d): %v", resp.StatusCode, err)
	}

	if !sr.success {
		msg := sr.message
		if msg == "" {
			msg = "payment session was rejected"
		}
		return "", &RejectedError{Message: msg}
	}

	return sr.gatewayURL, nil
}

// encodeSessionRequest renders the assembled order payload tagged with our
// order id so the gateway can reference it in callbacks. Money travels as
// strings; empty code and paymentMethod are omitted.
func encodeSessionRequest(orderID string, p order.Payload) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("order", func(e *jx.Encoder) { e.Str(orderID) })
		e.Field("user", func(e *jx.Encoder) { e.Str(p.User) })
		e.Field("products", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, it := range p.Products {
					e.Obj(func(e *jx.Encoder) {
						e.Field("product", func(e *jx.Encoder) { e.Str(it.ProductID) })
						if it.VariantID != "" {
							e.Field("variant", func(e *jx.Encoder) { e.Str(it.VariantID) })
						}
						e.Field("quantity", func(e *jx.Encoder) { e.Int(it.Quantity) })
					})
				}
			})
		})
		e.Field("shippingFee", func(e *jx.Encoder) { e.Str(p.ShippingFee.String()) })
		e.Field("discount", func(e *jx.Encoder) { e.Str(p.Discount.String()) })
		e.Field("deliveryOption", func(e *jx.Encoder) { e.Str(p.DeliveryOption) })
		if p.Code != "" {
			e.Field("code", func(e *jx.Encoder) { e.Str(p.Code) })
		}
		e.Field("subTotal", func(e *jx.Encoder) { e.Str(p.SubTotal.String()) })
		e.Field("grandTotal", func(e *jx.Encoder) { e.Str(p.GrandTotal.String()) })
		if p.PaymentMethod != "" {
			e.Field("paymentMethod", func(e *jx.Encoder) { e.Str(p.PaymentMethod) })
		}
	})
	return e.Bytes()
}

type sessionResponse struct {
	success    bool
	message    string
	gatewayURL string
}

func decodeSessionResponse(raw []byte) (sessionResponse, error) {
	var sr sessionResponse
	d := jx.DecodeBytes(raw)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "success":
			v, err := d.Bool()
			if err != nil {
				return err
			}
			sr.success = v
			return nil
		case "message", "errorMessage":
			v, err := d.Str()
			if err != nil {
				return err
			}
			sr.message = v
			return nil
		case "data":
			if d.Next() == jx.Null {
				return d.Null()
			}
			return d.Obj(func(d *jx.Decoder, key string) error {
				if key != "gatewayUrl" {
					return d.Skip()
				}
				v, err := d.Str()
				if err != nil {
					return err
				}
				sr.gatewayURL = v
				return nil
			})
		default:
			return d.Skip()
		}
	})
	return sr, err
}
