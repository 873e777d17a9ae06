package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-events-api/internal/middleware"
	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
	"github.com/noah-isme/campus-events-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// actsForStudent writes a forbidden error when a student token targets another student.
// Staff tokens, and requests without claims, may act for any student.
func actsForStudent(c *gin.Context, studentID string) bool {
	claims := claimsFromContext(c)
	if claims == nil || claims.Role != models.RoleStudent || claims.UserID == studentID {
		return true
	}
	response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "students may only act for themselves"))
	return false
}

// bindJSON decodes the request body and writes a validation error on failure.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

// intQuery reads an integer query parameter, falling back on absence or parse failure.
func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func pageQuery(c *gin.Context) (int, int) {
	return intQuery(c, "page", 1), intQuery(c, "page_size", 20)
}
