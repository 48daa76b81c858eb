package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/commerce"
	"storefront/internal/domain"
)

const (
	sessionCookie    = "storefront_session"
	sessionCookieAge = 30 * 24 * 60 * 60

	rcKey = "requestContext"
)

// sessionMiddleware resolves the session cookie into the request context
// used for backend calls. Requests without a usable session get a fresh
// anonymous one; the cookie is replaced in the same response.
func sessionMiddleware(logger *log.Logger, sessions sessionService, cookieSecure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err == nil && token != "" {
			rc, err := sessions.Resolve(c.Request.Context(), token)
			if err == nil {
				rc.OnAuthToken = bindFunc(sessions, token)
				c.Set(rcKey, rc)
				c.Next()
				return
			}
			if !errors.Is(err, domain.ErrNotFound) {
				logger.Printf("resolve session: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
		}

		fresh, err := sessions.Issue(c.Request.Context())
		if err != nil {
			logger.Printf("issue session: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		rc, err := sessions.Resolve(c.Request.Context(), fresh)
		if err != nil {
			logger.Printf("resolve fresh session: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.SetCookie(sessionCookie, fresh, sessionCookieAge, "/", "", cookieSecure, true)
		rc.OnAuthToken = bindFunc(sessions, fresh)
		c.Set(rcKey, rc)
		c.Next()
	}
}

// bindFunc persists the backend auth token against the storefront session
// whenever the commerce engine issues or rotates it.
func bindFunc(sessions sessionService, token string) func(context.Context, string) error {
	return func(ctx context.Context, authToken string) error {
		return sessions.Bind(ctx, token, authToken)
	}
}

func requestContext(c *gin.Context) commerce.RequestContext {
	if v, ok := c.Get(rcKey); ok {
		if rc, ok := v.(commerce.RequestContext); ok {
			return rc
		}
	}
	return commerce.RequestContext{}
}
