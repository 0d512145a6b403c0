package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/kendall-kelly/modamedidas-api/utils"
)

// ImageService validates uploaded images and keeps them in an ObjectStore
type ImageService struct {
	store ObjectStore
}

var imageServiceInstance *ImageService

// NewImageService creates an image service on top of store
func NewImageService(store ObjectStore) *ImageService {
	return &ImageService{store: store}
}

// InitImageService initializes the shared image service
func InitImageService(store ObjectStore) *ImageService {
	imageServiceInstance = NewImageService(store)
	return imageServiceInstance
}

// GetImageService returns the initialized image service instance
func GetImageService() *ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service *ImageService) {
	imageServiceInstance = service
}

// Upload validates the file against policy and stores it as <prefix>-<uuid><ext>.
// Validation failures are returned as *utils.FileUploadError.
func (s *ImageService) Upload(ctx context.Context, fileHeader *multipart.FileHeader, policy utils.UploadPolicy, prefix string) (string, error) {
	file, err := utils.ValidateImageFile(fileHeader, policy)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s-%s%s", prefix, uuid.NewString(), file.Extension)
	if err := s.store.Put(ctx, key, file.ContentType, file.Content); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return key, nil
}

// URL resolves a stored key to a link, empty for an empty key
func (s *ImageService) URL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	url, err := s.store.URL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}
	return url, nil
}

// Delete removes a stored image
func (s *ImageService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
