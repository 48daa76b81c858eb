package session

import (
	"context"
	"time"
)

// Session binds an opaque storefront cookie token to the backend
// credentials it stands for.
type Session struct {
	Token       string
	AuthToken   string
	ChannelCode string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

type Repository interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (*Session, error)
	UpdateAuthToken(ctx context.Context, token, authToken string) error
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
