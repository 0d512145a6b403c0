package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/modamedidas-api/config"
	"github.com/kendall-kelly/modamedidas-api/models"
	"github.com/kendall-kelly/modamedidas-api/services"
	"github.com/kendall-kelly/modamedidas-api/utils"
	"gorm.io/gorm"
)

// RegisterRequest represents the request body for creating a designer account
type RegisterRequest struct {
	Name       string `json:"name" binding:"required,max=80"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8,max=72"`
	StudioName string `json:"studio_name" binding:"max=120"`
	Phone      string `json:"phone" binding:"max=30"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents the request body for updating the designer profile.
// Omitted fields keep their value.
type UpdateProfileRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=80"`
	StudioName *string `json:"studio_name" binding:"omitempty,max=120"`
	Phone      *string `json:"phone" binding:"omitempty,max=30"`
	Address    *string `json:"address" binding:"omitempty,max=300"`
	Website    *string `json:"website" binding:"omitempty,max=200"`
	WhatsApp   *string `json:"whatsapp" binding:"omitempty,max=30"`
}

// authResponse is returned by register and login
type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func issueToken(c *gin.Context, status int, user *models.User) {
	token, err := services.NewTokenService(config.GetConfig()).Generate(user)
	if err != nil {
		log.Printf("Failed to issue token: %v", err)
		respondError(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue access token")
		return
	}
	user.LogoURL = imageURL(c, user.LogoKey)
	respondData(c, status, authResponse{Token: token, User: user})
}

// Register handles POST /api/v1/auth/register - creates a designer account and logs it in
func Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user := models.User{
		Name:       req.Name,
		Email:      models.NormalizeEmail(req.Email),
		StudioName: req.StudioName,
		Phone:      req.Phone,
		Role:       models.RoleDesigner,
		IsActive:   true,
		Plan:       "free",
	}
	if err := user.SetPassword(req.Password, config.GetConfig().BcryptCost); err != nil {
		if errors.Is(err, models.ErrPasswordTooShort) {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to secure password")
		return
	}

	if err := db(c).Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			respondError(c, http.StatusConflict, "EMAIL_EXISTS", "An account with this email already exists")
			return
		}
		respondDatabaseError(c, "Failed to create account", err)
		return
	}

	issueToken(c, http.StatusCreated, &user)
}

// Login handles POST /api/v1/auth/login - exchanges credentials for a token
func Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	var user models.User
	err := db(c).Where("email = ?", models.NormalizeEmail(req.Email)).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		respondDatabaseError(c, "Failed to load account", err)
		return
	}
	if err != nil || !user.CheckPassword(req.Password) {
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	}
	if !user.IsActive {
		respondError(c, http.StatusUnauthorized, "ACCOUNT_DISABLED", "Account is disabled")
		return
	}

	issueToken(c, http.StatusOK, &user)
}

// GetMyProfile handles GET /api/v1/auth/me - gets the current designer's profile
func GetMyProfile(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}

	designer.LogoURL = imageURL(c, designer.LogoKey)
	respondData(c, http.StatusOK, designer)
}

// UpdateMyProfile handles PUT /api/v1/auth/me - updates the current designer's profile
func UpdateMyProfile(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	// Update fields if provided
	updates := make(map[string]interface{})
	setString(updates, "name", req.Name)
	setString(updates, "studio_name", req.StudioName)
	setString(updates, "phone", req.Phone)
	setString(updates, "address", req.Address)
	setString(updates, "website", req.Website)
	setString(updates, "whatsapp", req.WhatsApp)

	if len(updates) > 0 {
		if err := db(c).Model(designer).Updates(updates).Error; err != nil {
			respondDatabaseError(c, "Failed to update profile", err)
			return
		}
	}

	// Fetch updated designer to return
	var user models.User
	if err := db(c).First(&user, "id = ?", designer.ID).Error; err != nil {
		respondDatabaseError(c, "Failed to fetch updated profile", err)
		return
	}
	user.LogoURL = imageURL(c, user.LogoKey)
	respondData(c, http.StatusOK, user)
}

// UploadLogo handles POST /api/v1/auth/me/logo - replaces the studio logo
func UploadLogo(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}

	key, ok := uploadImage(c, "logo", utils.LogoPolicy, "logo")
	if !ok {
		return
	}

	previous := designer.LogoKey
	if err := db(c).Model(designer).Update("logo_key", key).Error; err != nil {
		discardImage(c, key)
		respondDatabaseError(c, "Failed to save logo", err)
		return
	}
	discardImage(c, previous)

	designer.LogoKey = key
	designer.LogoURL = imageURL(c, key)
	respondData(c, http.StatusOK, designer)
}

func setString(updates map[string]interface{}, column string, value *string) {
	if value != nil {
		updates[column] = *value
	}
}
