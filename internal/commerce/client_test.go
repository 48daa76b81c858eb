package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestActiveOrderDecodesSnapshot(t *testing.T) {
	var gotAuth, gotChannel string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotChannel = r.Header.Get("channel-token")
		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"activeOrder":{
			"id":"ord-1","currencyCode":"INR","totalWithTax":730,"shippingWithTax":0,
			"lines":[{"id":"l1","linePriceWithTax":500},{"id":"l2","linePriceWithTax":230}],
			"couponCodes":["WELCOME"],
			"surcharges":[{"description":"points","price":-20}]}}}`))
	})

	rc := RequestContext{AuthToken: "tok", ChannelCode: "in-store"}
	order, err := client.ActiveOrder(context.Background(), rc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order == nil || order.ID != "ord-1" || order.TotalWithTax != 730 {
		t.Fatalf("unexpected order: %+v", order)
	}
	if len(order.Lines) != 2 || order.Lines[0].LinePriceWithTax != 500 {
		t.Fatalf("unexpected lines: %+v", order.Lines)
	}
	if gotAuth != "Bearer tok" || gotChannel != "in-store" {
		t.Fatalf("unexpected headers: auth=%q channel=%q", gotAuth, gotChannel)
	}
}

func TestActiveOrderNilWhenNoOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"activeOrder":null}}`))
	})
	order, err := client.ActiveOrder(context.Background(), RequestContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != nil {
		t.Fatalf("expected nil order, got %+v", order)
	}
}

func TestApplyCouponBackendRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"applyCouponCode":{
			"__typename":"CouponCodeInvalidError",
			"errorCode":"COUPON_CODE_INVALID_ERROR",
			"message":"Coupon code \"NOPE\" is not valid"}}}`))
	})
	_, err := client.ApplyCoupon(context.Background(), RequestContext{}, "NOPE")
	var be *domain.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if be.Code != "COUPON_CODE_INVALID_ERROR" {
		t.Fatalf("unexpected error code %q", be.Code)
	}
}

func TestApplyCouponReturnsOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"applyCouponCode":{
			"__typename":"Order","id":"ord-1","couponCodes":["WELCOME"],"totalWithTax":750}}}`))
	})
	order, err := client.ApplyCoupon(context.Background(), RequestContext{}, "WELCOME")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != "ord-1" || len(order.CouponCodes) != 1 {
		t.Fatalf("unexpected order: %+v", order)
	}
}

func TestApplyLoyaltyPointsFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"applyLoyaltyPoints":{
			"success":false,"errorCode":"INSUFFICIENT_POINTS","message":"Not enough points"}}}`))
	})
	err := client.ApplyLoyaltyPoints(context.Background(), RequestContext{}, "ord-1", 100)
	var be *domain.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if be.Message != "Not enough points" {
		t.Fatalf("unexpected message %q", be.Message)
	}
}

func TestRemoveLoyaltyPointsNoOpSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"removeLoyaltyPoints":{"success":true}}}`))
	})
	if err := client.RemoveLoyaltyPoints(context.Background(), RequestContext{}, "ord-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGraphQLTopLevelErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"You are not currently authorized"}],"data":null}`))
	})
	_, err := client.ActiveOrder(context.Background(), RequestContext{})
	if err == nil || domain.IsBackend(err) || domain.IsValidation(err) {
		t.Fatalf("expected transport-class error, got %v", err)
	}
}

func TestUnexpectedStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := client.ActiveOrder(context.Background(), RequestContext{})
	if err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}

func TestLoyaltyBalance(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"activeCustomer":{"loyaltyPoints":120}}}`))
	})
	balance, err := client.LoyaltyBalance(context.Background(), RequestContext{AuthToken: "tok"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 120 {
		t.Fatalf("expected balance 120, got %d", balance)
	}
}

func TestAuthTokenHeaderForwardedToCallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("auth-token", "rotated")
		w.Write([]byte(`{"data":{"activeOrder":null}}`))
	})
	var stored string
	rc := RequestContext{
		AuthToken: "old",
		OnAuthToken: func(_ context.Context, tok string) error {
			stored = tok
			return nil
		},
	}
	if _, err := client.ActiveOrder(context.Background(), rc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored != "rotated" {
		t.Fatalf("expected rotated token stored, got %q", stored)
	}
}

func TestAuthTokenStoredDespiteGraphQLError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("auth-token", "issued")
		w.Write([]byte(`{"errors":[{"message":"You are not currently authorized"}],"data":null}`))
	})
	var stored string
	rc := RequestContext{
		OnAuthToken: func(_ context.Context, tok string) error {
			stored = tok
			return nil
		},
	}
	_, err := client.ActiveOrder(context.Background(), rc)
	if err == nil {
		t.Fatalf("expected graphql error")
	}
	if stored != "issued" {
		t.Fatalf("expected token stored despite error, got %q", stored)
	}
}

func TestAuthTokenUnchangedSkipsCallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("auth-token", "same")
		w.Write([]byte(`{"data":{"activeOrder":null}}`))
	})
	called := false
	rc := RequestContext{
		AuthToken: "same",
		OnAuthToken: func(_ context.Context, _ string) error {
			called = true
			return nil
		},
	}
	if _, err := client.ActiveOrder(context.Background(), rc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatalf("expected callback not to fire for unchanged token")
	}
}

func TestLoyaltyBalanceAnonymous(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"activeCustomer":null}}`))
	})
	_, err := client.LoyaltyBalance(context.Background(), RequestContext{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
