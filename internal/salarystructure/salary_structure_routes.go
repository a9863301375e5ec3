package salarystructure

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	structures := r.Group("/salary-structures")
	{
		structures.POST("", handler.Setup)
		structures.GET("", handler.GetAll)
		structures.GET("/:employeeId", handler.Get)
	}
}
