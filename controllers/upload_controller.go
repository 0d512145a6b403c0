package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/modamedidas-api/utils"
)

// GetUploadedImage handles GET /api/v1/uploads/:filename - serves images kept by the local store
func GetUploadedImage(c *gin.Context) {
	filename := c.Param("filename")

	if filename == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Filename is required")
		return
	}

	// Prevent directory traversal
	if !utils.IsSafeFilename(filename) {
		respondError(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
		return
	}

	contentType, ok := utils.ImageContentTypes[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only JPEG, PNG and WEBP images are supported")
		return
	}

	filePath := filepath.Join(utils.UploadDir, filename)
	if info, err := os.Stat(filePath); err != nil || info.IsDir() {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found")
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400") // 24 hours
	c.File(filePath)
}
