package middleware

import (
	"school-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextLogger attaches a request-scoped logger carrying the request
// ID and tenant, so service and repo layers can log via contextutil
// without knowing about gin.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetString("request_id")
		if rid == "" {
			rid = uuid.New().String()
			c.Set("request_id", rid)
		}
		c.Header("X-Request-ID", rid)

		schoolID := c.GetString("school_id")
		actorID := c.GetString("actor_id")

		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.String("school_id", schoolID),
			zap.String("actor_id", actorID),
		)

		ctx := c.Request.Context()
		ctx = contextutil.WithRequestID(ctx, rid)
		ctx = contextutil.WithActorID(ctx, actorID)
		ctx = contextutil.WithLogger(ctx, reqLogger)

		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
