package department

import (
	"go-orgstructure/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	departments := r.Group("/departments")

	{
		departments.GET("", h.GetAll)
		departments.GET("/:id", h.GetById)
		departments.POST("", middleware.RequireActor(), h.Create)
		departments.PUT("/:id", middleware.RequireActor(), h.Update)
		departments.POST("/:id/deactivate", middleware.RequireActor(), h.Deactivate)
		departments.POST("/:id/activate", middleware.RequireActor(), h.Activate)
	}
}
