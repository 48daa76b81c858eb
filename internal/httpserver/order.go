package httpserver

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/totals"
)

type summaryResponse struct {
	*totals.DerivedTotals
	CouponActions []couponAffordance `json:"couponActions,omitempty"`
}

type couponAffordance struct {
	Code   string `json:"code"`
	Action string `json:"action"`
}

func toSummaryResponse(t *totals.DerivedTotals) summaryResponse {
	out := summaryResponse{DerivedTotals: t}
	for _, code := range t.CouponCodes {
		out.CouponActions = append(out.CouponActions, couponAffordance{
			Code:   code,
			Action: t.CouponAction(code),
		})
	}
	return out
}

func summaryHandler(logger *log.Logger, svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := svc.Summary(c.Request.Context(), requestContext(c))
		if err != nil {
			renderActionError(c, logger, err)
			return
		}
		if summary == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, toSummaryResponse(summary))
	}
}

type couponRequest struct {
	Code string `json:"code"`
}

func applyCouponHandler(logger *log.Logger, svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req couponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		summary, err := svc.ApplyCoupon(c.Request.Context(), requestContext(c), req.Code)
		if err != nil {
			renderActionError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toSummaryResponse(summary))
	}
}

func removeCouponHandler(logger *log.Logger, svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := svc.RemoveCoupon(c.Request.Context(), requestContext(c), c.Param("code"))
		if err != nil {
			renderActionError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toSummaryResponse(summary))
	}
}

type pointsRequest struct {
	Amount int64 `json:"amount"`
}

func applyPointsHandler(logger *log.Logger, svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req pointsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := svc.ApplyPoints(c.Request.Context(), requestContext(c), req.Amount); err != nil {
			renderActionError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func removePointsHandler(logger *log.Logger, svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.RemovePoints(c.Request.Context(), requestContext(c)); err != nil {
			renderActionError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

type instructionsRequest struct {
	Instructions string `json:"instructions"`
}

func instructionsHandler(logger *log.Logger, svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req instructionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := svc.SetInstructions(c.Request.Context(), requestContext(c), req.Instructions); err != nil {
			renderActionError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// renderActionError maps the error taxonomy onto inline responses: local
// validation failures keep their message, backend rejections surface
// verbatim, and transport failures collapse to a generic message so the
// page keeps rendering with pre-action totals.
func renderActionError(c *gin.Context, logger *log.Logger, err error) {
	var msg string
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case domain.IsBackend(err):
		msg = err.Error()
		if strings.TrimSpace(msg) == "" {
			msg = "Request rejected"
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg})
		return
	default:
		logger.Printf("commerce call failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Something went wrong. Please try again."})
	}
}
