package audit

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	logs := r.Group("/audit-logs")
	{
		logs.GET("", h.List)
	}
}
