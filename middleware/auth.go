package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kendall-kelly/modamedidas-api/config"
	"github.com/kendall-kelly/modamedidas-api/models"
	"gorm.io/gorm"
)

const (
	userIDKey          = "user_id"
	validatedClaimsKey = "validated_claims"
	designerKey        = "designer"
)

// CustomClaims contains the application claims carried next to the registered ones.
type CustomClaims struct {
	Role string `json:"role"`
}

// Validate satisfies validator.CustomClaims; the role is checked against the
// database when the designer is loaded.
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// EnsureValidToken is a middleware that will check the validity of our JWT.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.JWTSecret)
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		log.Fatalf("Failed to set up the jwt validator: %v", err)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("Encountered error while validating JWT: %v", err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Missing or invalid access token"}}`)); writeErr != nil {
			log.Printf("Failed to write error response: %v", writeErr)
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		passed := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			passed = true
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)

			c.Set(userIDKey, token.RegisteredClaims.Subject)
			c.Set(validatedClaimsKey, token)
			c.Request = r
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoadDesigner resolves the token subject to an active designer account and
// stores it as the request principal.
func LoadDesigner(db func() *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawID, err := GetUserID(c)
		if err != nil {
			abortUnauthorized(c, "UNAUTHORIZED", "Could not extract user ID from token")
			return
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			abortUnauthorized(c, "INVALID_TOKEN", "Token subject is not a valid account id")
			return
		}

		var designer models.User
		if err := db().WithContext(c.Request.Context()).First(&designer, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortUnauthorized(c, "UNAUTHORIZED", "Account no longer exists")
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to load account",
				},
			})
			return
		}
		if !designer.IsActive {
			abortUnauthorized(c, "ACCOUNT_DISABLED", "Account is disabled")
			return
		}

		SetDesigner(c, &designer)
		c.Next()
	}
}

// SetDesigner stores the request principal (also used by tests)
func SetDesigner(c *gin.Context, designer *models.User) {
	c.Set(designerKey, designer)
	c.Set(userIDKey, designer.ID.String())
}

// CurrentDesigner returns the principal loaded by LoadDesigner
func CurrentDesigner(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(designerKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_DESIGNER", Message: "Designer not found in context"}
	}
	designer, ok := value.(*models.User)
	if !ok || designer == nil {
		return nil, &AuthError{Code: "INVALID_DESIGNER", Message: "Designer in context has the wrong type"}
	}
	return designer, nil
}

// GetUserID extracts the token subject from the Gin context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	return userIDStr, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(validatedClaimsKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// RequireRole is a middleware that only lets designers with role through.
// It must run after LoadDesigner.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		designer, err := CurrentDesigner(c)
		if err != nil {
			abortUnauthorized(c, "UNAUTHORIZED", "Authentication required")
			return
		}

		if designer.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Insufficient permissions to access this resource",
				},
			})
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
