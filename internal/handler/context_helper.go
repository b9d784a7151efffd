package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-planner-api/internal/middleware"
	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
	"github.com/noah-isme/class-planner-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

// requireSelfOrAdmin answers 403 unless the caller owns :id or is an admin.
func requireSelfOrAdmin(c *gin.Context) (string, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return "", false
	}
	id := c.Param("id")
	if id != claims.UserID && !claims.HasRole(models.RoleAdmin) {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "you can only access your own planner"))
		return "", false
	}
	return id, true
}

func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}
