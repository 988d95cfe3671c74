package changerequest

import (
	"go-orgstructure/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, idempotency gin.HandlerFunc) {
	requests := r.Group("/change-requests")

	{
		requests.GET("", h.GetAll)
		requests.GET("/:id", h.GetById)
		requests.GET("/:id/approvals", h.ListApprovals)
		requests.POST("", middleware.RequireActor(), h.Create)
		requests.PUT("/:id", middleware.RequireActor(), h.Update)
		requests.POST("/:id/cancel", middleware.RequireActor(), h.Cancel)
		requests.POST("/:id/decisions", middleware.RequireActor(), idempotency, h.SubmitDecision)
	}
}
