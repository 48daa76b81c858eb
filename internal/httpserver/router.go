package httpserver

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/commerce"
	"storefront/internal/totals"
)

// Deps carries the services the router depends on.
type Deps struct {
	CheckoutSvc checkoutService
	SessionSvc  sessionService
}

type checkoutService interface {
	Summary(ctx context.Context, rc commerce.RequestContext) (*totals.DerivedTotals, error)
	ApplyCoupon(ctx context.Context, rc commerce.RequestContext, code string) (*totals.DerivedTotals, error)
	RemoveCoupon(ctx context.Context, rc commerce.RequestContext, code string) (*totals.DerivedTotals, error)
	ApplyPoints(ctx context.Context, rc commerce.RequestContext, amount int64) error
	RemovePoints(ctx context.Context, rc commerce.RequestContext) error
	SetInstructions(ctx context.Context, rc commerce.RequestContext, text string) error
}

type sessionService interface {
	Issue(ctx context.Context) (string, error)
	Resolve(ctx context.Context, token string) (commerce.RequestContext, error)
	Bind(ctx context.Context, token, authToken string) error
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string, cookieSecure bool) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if err := corsCfg.Validate(); err != nil {
		return nil, err
	}
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	api.Use(sessionMiddleware(logger, deps.SessionSvc, cookieSecure))
	{
		order := api.Group("/order")
		order.GET("/summary", summaryHandler(logger, deps.CheckoutSvc))
		order.POST("/coupons", applyCouponHandler(logger, deps.CheckoutSvc))
		order.DELETE("/coupons/:code", removeCouponHandler(logger, deps.CheckoutSvc))
		order.POST("/points", applyPointsHandler(logger, deps.CheckoutSvc))
		order.DELETE("/points", removePointsHandler(logger, deps.CheckoutSvc))
		order.PUT("/instructions", instructionsHandler(logger, deps.CheckoutSvc))
	}

	return router, nil
}
