package payrun

import (
	"school-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	payRuns := r.Group("/pay-runs")
	{
		if redisClient != nil {
			payRuns.POST("/generate", middleware.Idempotency(redisClient), handler.Generate)
		} else {
			payRuns.POST("/generate", handler.Generate)
		}
		payRuns.GET("/pending", handler.Pending)
		payRuns.GET("", handler.GetAll)
		payRuns.GET("/employee/:employeeId", handler.GetByEmployee)
		payRuns.GET("/:id", handler.GetDetail)
		payRuns.PATCH("/:id", handler.Update)
		payRuns.POST("/:id/mark-paid", handler.MarkPaid)
		payRuns.DELETE("/:id", handler.Delete)
	}
}
