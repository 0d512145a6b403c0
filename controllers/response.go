package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/modamedidas-api/config"
	"github.com/kendall-kelly/modamedidas-api/middleware"
	"github.com/kendall-kelly/modamedidas-api/models"
	"gorm.io/gorm"
)

// now is the clock used for timelines, change logs and numbering.
// Tests replace it.
var now = time.Now

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondErrorDetails(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondList(c *gin.Context, data interface{}, p Pagination) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       data,
		"pagination": p,
	})
}

func respondDatabaseError(c *gin.Context, message string, err error) {
	log.Printf("%s: %v", message, err)
	respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", message)
}

// respondLookupError maps a failed single-row lookup to 404 or 500
func respondLookupError(c *gin.Context, err error, code, message string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusNotFound, code, message)
		return
	}
	respondDatabaseError(c, "Failed to load record", err)
}

// isDuplicateKey detects unique violations (works with both PostgreSQL and SQLite)
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate") ||
		strings.Contains(errMsg, "unique constraint")
}

// db returns the shared database bound to the request context
func db(c *gin.Context) *gorm.DB {
	return config.GetDB().WithContext(c.Request.Context())
}

// principal returns the designer the request acts for, answering 401 when
// the auth middleware did not run
func principal(c *gin.Context) (*models.User, bool) {
	designer, err := middleware.CurrentDesigner(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return nil, false
	}
	return designer, true
}
