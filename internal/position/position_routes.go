package position

import (
	"go-orgstructure/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	positions := r.Group("/positions")

	{
		positions.GET("", h.GetAll)
		positions.GET("/:id", h.GetById)
		positions.GET("/:id/subordinates", h.Subordinates)
		positions.POST("", middleware.RequireActor(), h.Create)
		positions.PUT("/:id", middleware.RequireActor(), h.Update)
		positions.POST("/:id/deactivate", middleware.RequireActor(), h.Deactivate)
		positions.POST("/:id/activate", middleware.RequireActor(), h.Activate)
	}
}
