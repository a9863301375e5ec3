package middleware

import (
	"net/http"

	"school-payroll/internal/shared/contextutil"
	"school-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SchoolContext resolves the tenant for the request. The platform's
// API gateway authenticates operators and forwards the tenant and actor
// as headers; this engine trusts them but still insists on well-formed
// UUIDs so a broken gateway fails loudly here, not deep in a query.
func SchoolContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		schoolID := c.GetHeader("X-School-ID")
		if _, err := uuid.Parse(schoolID); err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "missing or malformed X-School-ID header", nil)
			c.Abort()
			return
		}
		c.Set("school_id", schoolID)

		actorID := c.GetHeader("X-Actor-ID")
		if actorID != "" {
			if _, err := uuid.Parse(actorID); err != nil {
				response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "malformed X-Actor-ID header", nil)
				c.Abort()
				return
			}
			c.Set("actor_id", actorID)
		}

		ctx := c.Request.Context()
		ctx = contextutil.WithActorID(ctx, actorID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
