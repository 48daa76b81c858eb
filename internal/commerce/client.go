package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"storefront/internal/domain"
)

// RequestContext carries the per-request credentials every backend call
// needs: the customer's session auth token and the sales-channel code.
// Both travel as headers; neither is ever read from a global.
//
// OnAuthToken, when set, is invoked with the auth token the backend
// returns in its response header, so the storefront session can keep the
// backend identity across requests.
type RequestContext struct {
	AuthToken   string
	ChannelCode string
	OnAuthToken func(ctx context.Context, token string) error
}

// Client talks to the headless commerce engine over its GraphQL HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// orderResult decodes the backend's order-or-error union: a successful
// mutation carries order fields, a rejection carries errorCode/message.
type orderResult struct {
	Typename  string `json:"__typename"`
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
	domain.OrderSnapshot
}

func (r *orderResult) toOrder() (*domain.OrderSnapshot, error) {
	if r.ErrorCode != "" {
		return nil, &domain.BackendError{Code: r.ErrorCode, Message: r.Message}
	}
	order := r.OrderSnapshot
	return &order, nil
}

func (c *Client) do(ctx context.Context, rc RequestContext, query string, variables map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if rc.ChannelCode != "" {
		req.Header.Set("channel-token", rc.ChannelCode)
	}
	if rc.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+rc.AuthToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status: %d, body: %s", resp.StatusCode, string(body))
	}

	// The backend may issue or rotate the session token on any response,
	// including ones whose body carries a GraphQL error, so store it
	// before inspecting the envelope.
	if tok := resp.Header.Get("auth-token"); tok != "" && tok != rc.AuthToken && rc.OnAuthToken != nil {
		if err := rc.OnAuthToken(ctx, tok); err != nil {
			return fmt.Errorf("store auth token: %w", err)
		}
	}

	var envelope graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("graphql error: %s", envelope.Errors[0].Message)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

// ActiveOrder fetches the current order snapshot. A nil snapshot with a
// nil error means the session has no active order.
func (c *Client) ActiveOrder(ctx context.Context, rc RequestContext) (*domain.OrderSnapshot, error) {
	var data struct {
		ActiveOrder *domain.OrderSnapshot `json:"activeOrder"`
	}
	if err := c.do(ctx, rc, queryActiveOrder, nil, &data); err != nil {
		return nil, err
	}
	return data.ActiveOrder, nil
}

// ApplyCoupon applies a coupon code to the active order.
func (c *Client) ApplyCoupon(ctx context.Context, rc RequestContext, code string) (*domain.OrderSnapshot, error) {
	var data struct {
		ApplyCouponCode orderResult `json:"applyCouponCode"`
	}
	if err := c.do(ctx, rc, mutationApplyCoupon, map[string]interface{}{"couponCode": code}, &data); err != nil {
		return nil, err
	}
	return data.ApplyCouponCode.toOrder()
}

// RemoveCoupon removes a previously applied coupon code.
func (c *Client) RemoveCoupon(ctx context.Context, rc RequestContext, code string) (*domain.OrderSnapshot, error) {
	var data struct {
		RemoveCouponCode orderResult `json:"removeCouponCode"`
	}
	if err := c.do(ctx, rc, mutationRemoveCoupon, map[string]interface{}{"couponCode": code}, &data); err != nil {
		return nil, err
	}
	return data.RemoveCouponCode.toOrder()
}

type loyaltyResult struct {
	Success   bool   `json:"success"`
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

func (r loyaltyResult) err() error {
	if r.Success {
		return nil
	}
	return &domain.BackendError{Code: r.ErrorCode, Message: r.Message}
}

// ApplyLoyaltyPoints redeems reward points against the given order. Local
// precondition checks happen in the checkout service, not here.
func (c *Client) ApplyLoyaltyPoints(ctx context.Context, rc RequestContext, orderID string, amount int64) error {
	var data struct {
		ApplyLoyaltyPoints loyaltyResult `json:"applyLoyaltyPoints"`
	}
	vars := map[string]interface{}{"orderId": orderID, "amount": amount}
	if err := c.do(ctx, rc, mutationApplyPoints, vars, &data); err != nil {
		return err
	}
	return data.ApplyLoyaltyPoints.err()
}

// RemoveLoyaltyPoints removes any applied point redemption from the order.
// Removing when none are applied is a backend no-op success.
func (c *Client) RemoveLoyaltyPoints(ctx context.Context, rc RequestContext, orderID string) error {
	var data struct {
		RemoveLoyaltyPoints loyaltyResult `json:"removeLoyaltyPoints"`
	}
	vars := map[string]interface{}{"orderId": orderID}
	if err := c.do(ctx, rc, mutationRemovePoints, vars, &data); err != nil {
		return err
	}
	return data.RemoveLoyaltyPoints.err()
}

// SetOrderInstructions stores free-text delivery instructions on the order.
func (c *Client) SetOrderInstructions(ctx context.Context, rc RequestContext, orderID, text string) error {
	var data struct {
		SetOrderInstructions loyaltyResult `json:"setOrderInstructions"`
	}
	vars := map[string]interface{}{"orderId": orderID, "instructions": text}
	if err := c.do(ctx, rc, mutationSetInstructions, vars, &data); err != nil {
		return err
	}
	return data.SetOrderInstructions.err()
}

// LoyaltyBalance returns the signed-in customer's available reward points.
func (c *Client) LoyaltyBalance(ctx context.Context, rc RequestContext) (int64, error) {
	var data struct {
		ActiveCustomer *struct {
			LoyaltyPoints int64 `json:"loyaltyPoints"`
		} `json:"activeCustomer"`
	}
	if err := c.do(ctx, rc, queryLoyaltyBalance, nil, &data); err != nil {
		return 0, err
	}
	if data.ActiveCustomer == nil {
		return 0, domain.ErrNotFound
	}
	return data.ActiveCustomer.LoyaltyPoints, nil
}
