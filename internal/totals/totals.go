package totals

import (
	"math"
	"strconv"

	"storefront/internal/domain"
)

// FreeShippingLabel is rendered in place of a zero-money shipping value.
const FreeShippingLabel = "Free"

// DerivedTotals is the displayable breakdown computed from an order
// snapshot. It is recomputed on every request and never persisted. The
// parts are explanatory only: Total always carries the backend-supplied
// grand total and is never reconciled against the other fields, because
// backend tax and rounding rules are authoritative.
type DerivedTotals struct {
	Subtotal            int64    `json:"subtotal"`
	Shipping            int64    `json:"shipping"`
	ShippingLabel       string   `json:"shippingLabel,omitempty"`
	CouponDiscount      int64    `json:"couponDiscount"`
	HasDiscount         bool     `json:"hasDiscount"`
	RewardPointDiscount int64    `json:"rewardPointDiscount"`
	Total               int64    `json:"total"`
	CurrencyCode        string   `json:"currencyCode"`
	CouponCodes         []string `json:"couponCodes,omitempty"`
}

// Project computes DerivedTotals from an order snapshot. A nil snapshot
// (no active order) yields nil; that is not an error.
func Project(order *domain.OrderSnapshot) *DerivedTotals {
	if order == nil {
		return nil
	}

	var subtotal int64
	for _, line := range order.Lines {
		subtotal += line.LinePriceWithTax
	}

	out := &DerivedTotals{
		Subtotal:            subtotal,
		Shipping:            order.ShippingWithTax,
		CouponDiscount:      couponDiscount(order.Promotions),
		RewardPointDiscount: rewardPointDiscount(order.Surcharges),
		Total:               order.TotalWithTax,
		CurrencyCode:        order.CurrencyCode,
		CouponCodes:         order.CouponCodes,
	}
	if out.Shipping == 0 {
		out.ShippingLabel = FreeShippingLabel
	}
	out.HasDiscount = len(order.CouponCodes) > 0 && out.CouponDiscount > 0
	return out
}

// couponDiscount sums the string-encoded discount arguments across all
// promotion actions. Unparseable or absent values contribute zero, and the
// aggregate never goes below zero. A sum outside the money range is as
// malformed as an unparseable argument and contributes nothing.
func couponDiscount(promotions []domain.Promotion) int64 {
	var sum float64
	for _, promo := range promotions {
		for _, action := range promo.Actions {
			sum += discountArg(action.Args)
		}
	}
	if sum <= 0 || sum >= math.MaxInt64 {
		return 0
	}
	return int64(math.Round(sum))
}

// discountArg returns the first argument named "discount" or
// "discountAmount" parsed as a number, or zero when missing or malformed.
// ParseFloat accepts "NaN", "Infinity" and values beyond the int64 money
// range; all of those count as malformed.
func discountArg(args []domain.ConfigArg) float64 {
	for _, arg := range args {
		if arg.Name != "discount" && arg.Name != "discountAmount" {
			continue
		}
		v, err := strconv.ParseFloat(arg.Value, 64)
		if err != nil || math.IsNaN(v) || math.Abs(v) >= math.MaxInt64 {
			return 0
		}
		return v
	}
	return 0
}

// rewardPointDiscount is the absolute value of the sum of all
// negative-priced surcharges. Non-negative surcharges are unrelated fees
// and are ignored.
func rewardPointDiscount(surcharges []domain.Surcharge) int64 {
	var sum int64
	for _, s := range surcharges {
		if s.Price < 0 {
			sum += s.Price
		}
	}
	if sum < 0 {
		return -sum
	}
	return 0
}

// CouponAction reports the affordance for a coupon code: "remove" when the
// code is currently applied, "apply" otherwise. The two are mutually
// exclusive per code.
func (t *DerivedTotals) CouponAction(code string) string {
	if t != nil {
		for _, applied := range t.CouponCodes {
			if applied == code {
				return "remove"
			}
		}
	}
	return "apply"
}
