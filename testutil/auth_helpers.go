package testutil

import (
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/modamedidas-api/middleware"
	"github.com/kendall-kelly/modamedidas-api/models"
)

// MockAuthMiddleware stands in for EnsureValidToken and LoadDesigner and
// installs designer as the request principal
func MockAuthMiddleware(designer *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetDesigner(c, designer)
		c.Next()
	}
}

// NewTestRouter creates a bare gin engine in test mode
func NewTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}
