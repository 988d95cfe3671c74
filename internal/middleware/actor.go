package middleware

import (
	"net/http"

	"go-orgstructure/internal/shared/contextutil"
	"go-orgstructure/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ActorHeader = "X-Employee-ID"

// RequireActor extracts the caller's employee id from the authenticated edge.
// The id is used only as performed_by on mutations; no authorization decision
// happens here.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(ActorHeader)
		if actorID == "" {
			response.Error(c, http.StatusBadRequest, "MISSING_ACTOR",
				"X-Employee-ID header is required for this operation", nil)
			c.Abort()
			return
		}
		if _, err := uuid.Parse(actorID); err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_ACTOR",
				"X-Employee-ID must be a valid employee id", nil)
			c.Abort()
			return
		}

		c.Set("actor_id", actorID)

		ctx := contextutil.WithActorID(c.Request.Context(), actorID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
