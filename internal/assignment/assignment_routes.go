package assignment

import (
	"go-orgstructure/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	assignments := r.Group("/assignments")

	{
		assignments.GET("", h.GetAll)
		assignments.GET("/:id", h.GetById)
		assignments.POST("", middleware.RequireActor(), h.Assign)
		assignments.POST("/:id/end", middleware.RequireActor(), h.End)
	}
}
