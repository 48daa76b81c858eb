package checkout

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"storefront/internal/commerce"
	"storefront/internal/domain"
	"storefront/internal/totals"
)

const maxInstructionsLen = 500

// Service validates user actions locally before forwarding them to the
// commerce backend. It never updates state optimistically: a failed action
// leaves the order untouched and callers re-fetch the snapshot to observe
// any effect.
type Service struct {
	api            commerceAPI
	pointsPerRupee int64
}

type commerceAPI interface {
	ActiveOrder(ctx context.Context, rc commerce.RequestContext) (*domain.OrderSnapshot, error)
	ApplyCoupon(ctx context.Context, rc commerce.RequestContext, code string) (*domain.OrderSnapshot, error)
	RemoveCoupon(ctx context.Context, rc commerce.RequestContext, code string) (*domain.OrderSnapshot, error)
	ApplyLoyaltyPoints(ctx context.Context, rc commerce.RequestContext, orderID string, amount int64) error
	RemoveLoyaltyPoints(ctx context.Context, rc commerce.RequestContext, orderID string) error
	SetOrderInstructions(ctx context.Context, rc commerce.RequestContext, orderID, text string) error
	LoyaltyBalance(ctx context.Context, rc commerce.RequestContext) (int64, error)
}

func New(api commerceAPI, pointsPerRupee int64) *Service {
	if pointsPerRupee <= 0 {
		pointsPerRupee = 1
	}
	return &Service{api: api, pointsPerRupee: pointsPerRupee}
}

// Summary fetches the active order and projects its totals. A nil summary
// with a nil error means there is no active order.
func (s *Service) Summary(ctx context.Context, rc commerce.RequestContext) (*totals.DerivedTotals, error) {
	order, err := s.api.ActiveOrder(ctx, rc)
	if err != nil {
		return nil, err
	}
	return totals.Project(order), nil
}

// ApplyCoupon applies a coupon code and returns the re-projected totals.
func (s *Service) ApplyCoupon(ctx context.Context, rc commerce.RequestContext, code string) (*totals.DerivedTotals, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.NewValidationError("Coupon code required")
	}
	order, err := s.api.ApplyCoupon(ctx, rc, code)
	if err != nil {
		return nil, err
	}
	return totals.Project(order), nil
}

// RemoveCoupon removes an applied coupon code. The backend is
// authoritative about whether the code was actually applied.
func (s *Service) RemoveCoupon(ctx context.Context, rc commerce.RequestContext, code string) (*totals.DerivedTotals, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.NewValidationError("Coupon code required")
	}
	order, err := s.api.RemoveCoupon(ctx, rc, code)
	if err != nil {
		return nil, err
	}
	return totals.Project(order), nil
}

// ApplyPoints redeems loyalty points against the active order. All
// preconditions are checked locally first; a violation makes no backend
// call at all.
func (s *Service) ApplyPoints(ctx context.Context, rc commerce.RequestContext, amount int64) error {
	if amount <= 0 {
		return domain.NewValidationError("Points must be a positive number")
	}
	if amount < s.pointsPerRupee {
		return domain.NewValidationError(fmt.Sprintf("Minimum %d points needed", s.pointsPerRupee))
	}
	balance, err := s.api.LoyaltyBalance(ctx, rc)
	if err != nil {
		return err
	}
	if amount > balance {
		return domain.NewValidationError(fmt.Sprintf("Only %d points available", balance))
	}
	order, err := s.api.ActiveOrder(ctx, rc)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.NewValidationError("No active order")
	}
	return s.api.ApplyLoyaltyPoints(ctx, rc, order.ID, amount)
}

// RemovePoints removes any applied point redemption. There is no local
// precondition: removing when none are applied is a backend no-op.
func (s *Service) RemovePoints(ctx context.Context, rc commerce.RequestContext) error {
	order, err := s.api.ActiveOrder(ctx, rc)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.NewValidationError("No active order")
	}
	return s.api.RemoveLoyaltyPoints(ctx, rc, order.ID)
}

// SetInstructions stores delivery instructions on the active order.
func (s *Service) SetInstructions(ctx context.Context, rc commerce.RequestContext, text string) error {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) > maxInstructionsLen {
		return domain.NewValidationError(fmt.Sprintf("Instructions must be %d characters or fewer", maxInstructionsLen))
	}
	order, err := s.api.ActiveOrder(ctx, rc)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.NewValidationError("No active order")
	}
	return s.api.SetOrderInstructions(ctx, rc, order.ID, text)
}
