package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GalleryCategories lists the portfolio categories in display order
var GalleryCategories = []string{"bridal", "quinceanera", "gala", "casual", "suits", "accessories", "other"}

// GalleryItem is a portfolio photo
type GalleryItem struct {
	Base
	DesignerID       uuid.UUID                   `gorm:"type:uuid;not null;index" json:"designer_id"`
	ClientID         *uuid.UUID                  `gorm:"type:uuid" json:"client_id,omitempty"`
	OrderID          *uuid.UUID                  `gorm:"type:uuid" json:"order_id,omitempty"`
	Title            string                      `gorm:"size:100" json:"title"`
	Description      string                      `gorm:"size:500" json:"description"`
	ImageURL         string                      `gorm:"not null" json:"image_url"`
	ThumbnailURL     string                      `json:"thumbnail_url"`
	Category         string                      `gorm:"not null;default:'other';index" json:"category"`
	Tags             datatypes.JSONSlice[string] `json:"tags"`
	GarmentType      string                      `json:"garment_type"`
	Fabrics          datatypes.JSONSlice[string] `json:"fabrics"`
	Colors           datatypes.JSONSlice[string] `json:"colors"`
	IsPublic         bool                        `gorm:"not null;default:false;index" json:"is_public"`
	IsFeatured       bool                        `gorm:"not null;default:false" json:"is_featured"`
	ClientPermission bool                        `gorm:"not null;default:false" json:"client_permission"`
	Views            int64                       `gorm:"not null;default:0" json:"views"`
}

// TableName specifies the table name for the GalleryItem model
func (GalleryItem) TableName() string {
	return "gallery_items"
}

// BeforeSave fills the thumbnail and keeps list columns non-null
func (g *GalleryItem) BeforeSave(tx *gorm.DB) error {
	if g.ThumbnailURL == "" {
		g.ThumbnailURL = g.ImageURL
	}
	if g.Tags == nil {
		g.Tags = datatypes.JSONSlice[string]{}
	}
	if g.Fabrics == nil {
		g.Fabrics = datatypes.JSONSlice[string]{}
	}
	if g.Colors == nil {
		g.Colors = datatypes.JSONSlice[string]{}
	}
	return nil
}

// PublicGalleryItem is the anonymous view of a public portfolio photo.
// It carries no client or order links.
type PublicGalleryItem struct {
	ID           uuid.UUID `json:"id"`
	DesignerID   uuid.UUID `json:"designer_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
	GarmentType  string    `json:"garment_type"`
	Fabrics      []string  `json:"fabrics"`
	Colors       []string  `json:"colors"`
	IsFeatured   bool      `json:"is_featured"`
	Views        int64     `json:"views"`
	CreatedAt    time.Time `json:"created_at"`
}

// Public strips the private links from the item
func (g *GalleryItem) Public() PublicGalleryItem {
	return PublicGalleryItem{
		ID:           g.ID,
		DesignerID:   g.DesignerID,
		Title:        g.Title,
		Description:  g.Description,
		ImageURL:     g.ImageURL,
		ThumbnailURL: g.ThumbnailURL,
		Category:     g.Category,
		Tags:         g.Tags,
		GarmentType:  g.GarmentType,
		Fabrics:      g.Fabrics,
		Colors:       g.Colors,
		IsFeatured:   g.IsFeatured,
		Views:        g.Views,
		CreatedAt:    g.CreatedAt,
	}
}
