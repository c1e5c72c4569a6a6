package checkout

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// DeliveryOption names a shipping zone. The set is closed; anything else is
// rejected at the boundary before aggregation.
type DeliveryOption string

const (
	DeliveryInsideZone  DeliveryOption = "insideZone"
	DeliveryOutsideZone DeliveryOption = "outsideZone"
)

// ErrUnknownDeliveryOption is returned for delivery options outside the
// closed set.
var ErrUnknownDeliveryOption = errors.New("unknown delivery option")

// ParseDeliveryOption validates a raw delivery option string.
func ParseDeliveryOption(s string) (DeliveryOption, error) {
	switch DeliveryOption(s) {
	case DeliveryInsideZone, DeliveryOutsideZone:
		return DeliveryOption(s), nil
	default:
		return "", errors.Wrapf(ErrUnknownDeliveryOption, "%q", s)
	}
}

// FeeTable maps delivery options to flat shipping fees. The table is
// injected from configuration; the engine never computes fees from
// distance or weight.
type FeeTable struct {
	InsideZone  decimal.Decimal
	OutsideZone decimal.Decimal
}

// Fee returns the shipping fee for the given option.
func (t FeeTable) Fee(opt DeliveryOption) (decimal.Decimal, error) {
	switch opt {
	case DeliveryInsideZone:
		return t.InsideZone, nil
	case DeliveryOutsideZone:
		return t.OutsideZone, nil
	default:
		return decimal.Zero, errors.Wrapf(ErrUnknownDeliveryOption, "%q", opt)
	}
}
