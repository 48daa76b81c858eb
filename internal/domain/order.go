package domain

// OrderSnapshot is a read-only view of the active order as returned by the
// commerce backend. All money values are in minor units (paise) with tax
// included. The snapshot is never mutated locally; a fresh one is fetched
// after every action round-trip.
type OrderSnapshot struct {
	ID              string      `json:"id"`
	Code            string      `json:"code,omitempty"`
	State           string      `json:"state,omitempty"`
	CurrencyCode    string      `json:"currencyCode"`
	Lines           []OrderLine `json:"lines"`
	ShippingWithTax int64       `json:"shippingWithTax"`
	TotalWithTax    int64       `json:"totalWithTax"`
	Surcharges      []Surcharge `json:"surcharges,omitempty"`
	Promotions      []Promotion `json:"promotions,omitempty"`
	CouponCodes     []string    `json:"couponCodes,omitempty"`
}

type OrderLine struct {
	ID               string `json:"id,omitempty"`
	LinePriceWithTax int64  `json:"linePriceWithTax"`
}

// Surcharge is a line-item-independent price adjustment. Negative prices
// model loyalty-point redemptions; non-negative ones are unrelated fees.
type Surcharge struct {
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
}

// Promotion carries backend-computed discount metadata for an applied
// promotion. The discount amount arrives as a string-encoded argument on
// one of the promotion's actions.
type Promotion struct {
	CouponCode string            `json:"couponCode,omitempty"`
	Actions    []PromotionAction `json:"actions,omitempty"`
}

type PromotionAction struct {
	Code string      `json:"code,omitempty"`
	Args []ConfigArg `json:"args,omitempty"`
}

type ConfigArg struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
