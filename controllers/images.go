package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/modamedidas-api/services"
	"github.com/kendall-kelly/modamedidas-api/utils"
)

// imageURL resolves a stored object key, logging instead of failing the request
func imageURL(c *gin.Context, key string) string {
	svc := services.GetImageService()
	if key == "" || svc == nil {
		return ""
	}
	url, err := svc.URL(c.Request.Context(), key)
	if err != nil {
		log.Printf("Failed to resolve image %s: %v", key, err)
		return ""
	}
	return url
}

// uploadImage stores the multipart file in field and returns its key.
// It answers the request itself when ok is false.
func uploadImage(c *gin.Context, field string, policy utils.UploadPolicy, prefix string) (string, bool) {
	svc := services.GetImageService()
	if svc == nil {
		respondError(c, http.StatusInternalServerError, "STORAGE_UNAVAILABLE", "Image storage is not configured")
		return "", false
	}

	fileHeader, err := c.FormFile(field)
	if err != nil {
		respondError(c, http.StatusBadRequest, "NO_FILE", "No "+field+" file provided")
		return "", false
	}

	key, err := svc.Upload(c.Request.Context(), fileHeader, policy, prefix)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
			return "", false
		}
		log.Printf("Image upload failed: %v", err)
		respondError(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to upload image")
		return "", false
	}
	return key, true
}

// discardImage removes a replaced object; failures only leave an orphan behind
func discardImage(c *gin.Context, key string) {
	svc := services.GetImageService()
	if key == "" || svc == nil {
		return
	}
	if err := svc.Delete(c.Request.Context(), key); err != nil {
		log.Printf("Failed to delete replaced image %s: %v", key, err)
	}
}

