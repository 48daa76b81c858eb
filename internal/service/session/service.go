package session

import (
	"context"
	"errors"
	"log"
	"time"

	"storefront/internal/commerce"
	"storefront/internal/domain"
	sessionrepo "storefront/internal/repository/session"

	"github.com/google/uuid"
)

// Service issues and resolves storefront sessions. A session maps the
// opaque cookie token handed to the browser onto the backend auth token
// and sales channel used for commerce API calls.
type Service struct {
	repo        sessionRepo
	channelCode string
	ttl         time.Duration
	now         func() time.Time
}

type sessionRepo interface {
	Create(ctx context.Context, s sessionrepo.Session) error
	Get(ctx context.Context, token string) (*sessionrepo.Session, error)
	UpdateAuthToken(ctx context.Context, token, authToken string) error
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

func New(repo sessionrepo.Repository, channelCode string, ttl time.Duration) *Service {
	return &Service{
		repo:        repo,
		channelCode: channelCode,
		ttl:         ttl,
		now:         time.Now,
	}
}

// Issue creates a fresh anonymous session and returns its cookie token.
func (s *Service) Issue(ctx context.Context) (string, error) {
	token := uuid.NewString()
	err := s.repo.Create(ctx, sessionrepo.Session{
		Token:       token,
		ChannelCode: s.channelCode,
		ExpiresAt:   s.now().Add(s.ttl),
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Resolve looks up a cookie token and returns the request context for
// backend calls. Expired sessions are deleted lazily and reported as not
// found.
func (s *Service) Resolve(ctx context.Context, token string) (commerce.RequestContext, error) {
	sess, err := s.repo.Get(ctx, token)
	if err != nil {
		return commerce.RequestContext{}, err
	}
	if s.now().After(sess.ExpiresAt) {
		if err := s.repo.Delete(ctx, token); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return commerce.RequestContext{}, err
		}
		return commerce.RequestContext{}, domain.ErrNotFound
	}
	return commerce.RequestContext{
		AuthToken:   sess.AuthToken,
		ChannelCode: sess.ChannelCode,
	}, nil
}

// Bind stores the backend auth token the commerce engine assigned to this
// session, so later calls reuse the same backend identity.
func (s *Service) Bind(ctx context.Context, token, authToken string) error {
	return s.repo.UpdateAuthToken(ctx, token, authToken)
}

// CleanupLoop deletes expired sessions on a ticker until ctx is done.
func (s *Service) CleanupLoop(ctx context.Context, interval time.Duration, logger *log.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.repo.DeleteExpired(ctx, s.now())
			if err != nil {
				logger.Printf("cleanup sessions: %v", err)
				continue
			}
			if n > 0 {
				logger.Printf("deleted %d expired sessions", n)
			}
		}
	}
}
