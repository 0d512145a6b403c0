package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// UploadDir is the directory the local object store writes to
	// Can be overridden for testing
	UploadDir = "./uploads"
)

// ImageContentTypes maps the accepted image extensions to their MIME types
var ImageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// UploadPolicy bounds what an upload endpoint accepts
type UploadPolicy struct {
	MaxSize    int64
	Extensions map[string]string // extension -> MIME type
}

var (
	// LogoPolicy applies to studio logos
	LogoPolicy = UploadPolicy{MaxSize: 2 * 1024 * 1024, Extensions: ImageContentTypes}
	// PhotoPolicy applies to client photos
	PhotoPolicy = UploadPolicy{MaxSize: 5 * 1024 * 1024, Extensions: ImageContentTypes}
)

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidatedFile is an upload that passed its policy
type ValidatedFile struct {
	Extension   string
	ContentType string
	Content     []byte
}

// ValidateImageFile checks size, extension and sniffed content of the upload
// and returns its bytes
func ValidateImageFile(fileHeader *multipart.FileHeader, policy UploadPolicy) (*ValidatedFile, error) {
	if fileHeader.Size > policy.MaxSize {
		return nil, &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", policy.MaxSize/(1024*1024)),
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	expected, ok := policy.Extensions[ext]
	if !ok {
		return nil, &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Only JPEG, PNG and WEBP images are allowed",
		}
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, policy.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(content)) > policy.MaxSize {
		return nil, &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", policy.MaxSize/(1024*1024)),
		}
	}

	detected, err := mimetype.DetectReader(bytes.NewReader(content))
	if err != nil || !detected.Is(expected) {
		return nil, &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "File content does not match its extension",
		}
	}

	return &ValidatedFile{Extension: ext, ContentType: expected, Content: content}, nil
}

// GetImageURL returns the URL path for accessing a locally stored image
func GetImageURL(filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("/api/v1/uploads/%s", filename)
}

// IsSafeFilename rejects names that could escape the upload directory
func IsSafeFilename(name string) bool {
	return name != "" && !strings.Contains(name, "..") && !strings.ContainsAny(name, `/\`)
}
