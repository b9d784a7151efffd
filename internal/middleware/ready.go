package middleware

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
	"github.com/noah-isme/class-planner-api/pkg/response"
)

// Readiness reports whether the planner state has been loaded.
type Readiness interface {
	Ready() bool
}

// RequireReady answers 503 until the first snapshot is applied.
func RequireReady(state Readiness) gin.HandlerFunc {
	return func(c *gin.Context) {
		if state != nil && !state.Ready() {
			response.Error(c, appErrors.ErrNotReady)
			c.Abort()
			return
		}
		c.Next()
	}
}
