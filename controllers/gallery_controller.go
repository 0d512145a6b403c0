package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kendall-kelly/modamedidas-api/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateGalleryItemRequest represents the request body for adding a portfolio photo
type CreateGalleryItemRequest struct {
	ClientID         *uuid.UUID `json:"client_id"`
	OrderID          *uuid.UUID `json:"order_id"`
	Title            string     `json:"title" binding:"max=100"`
	Description      string     `json:"description" binding:"max=500"`
	ImageURL         string     `json:"image_url" binding:"required,max=1000"`
	ThumbnailURL     string     `json:"thumbnail_url" binding:"max=1000"`
	Category         string     `json:"category" binding:"omitempty,oneof=bridal quinceanera gala casual suits accessories other"`
	Tags             []string   `json:"tags" binding:"max=20,dive,max=50"`
	GarmentType      string     `json:"garment_type" binding:"max=100"`
	Fabrics          []string   `json:"fabrics" binding:"max=20,dive,max=50"`
	Colors           []string   `json:"colors" binding:"max=20,dive,max=50"`
	IsPublic         bool       `json:"is_public"`
	IsFeatured       bool       `json:"is_featured"`
	ClientPermission bool       `json:"client_permission"`
}

// UpdateGalleryItemRequest represents the request body for updating a portfolio photo
type UpdateGalleryItemRequest struct {
	ClientID         *uuid.UUID `json:"client_id"`
	OrderID          *uuid.UUID `json:"order_id"`
	Title            *string    `json:"title" binding:"omitempty,max=100"`
	Description      *string    `json:"description" binding:"omitempty,max=500"`
	ImageURL         *string    `json:"image_url" binding:"omitempty,min=1,max=1000"`
	ThumbnailURL     *string    `json:"thumbnail_url" binding:"omitempty,max=1000"`
	Category         *string    `json:"category" binding:"omitempty,oneof=bridal quinceanera gala casual suits accessories other"`
	Tags             *[]string  `json:"tags" binding:"omitempty,max=20,dive,max=50"`
	GarmentType      *string    `json:"garment_type" binding:"omitempty,max=100"`
	Fabrics          *[]string  `json:"fabrics" binding:"omitempty,max=20,dive,max=50"`
	Colors           *[]string  `json:"colors" binding:"omitempty,max=20,dive,max=50"`
	IsPublic         *bool      `json:"is_public"`
	IsFeatured       *bool      `json:"is_featured"`
	ClientPermission *bool      `json:"client_permission"`
}

func findGalleryItem(c *gin.Context, designerID uuid.UUID) (*models.GalleryItem, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}

	var item models.GalleryItem
	if err := db(c).Scopes(models.OwnedBy(designerID)).First(&item, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "GALLERY_ITEM_NOT_FOUND", "Gallery item not found")
		return nil, false
	}
	return &item, true
}

// validGalleryLinks checks that linked clients and orders belong to the designer
func validGalleryLinks(c *gin.Context, designerID uuid.UUID, clientID, orderID *uuid.UUID) bool {
	if clientID != nil && !ownsClient(c, designerID, *clientID) {
		return false
	}
	if orderID != nil {
		var count int64
		if err := db(c).Model(&models.Order{}).Scopes(models.OwnedBy(designerID)).
			Where("id = ?", *orderID).Count(&count).Error; err != nil {
			respondDatabaseError(c, "Failed to verify order", err)
			return false
		}
		if count == 0 {
			respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
			return false
		}
	}
	return true
}

// ListGalleryItems handles GET /api/v1/gallery - lists the designer's portfolio
func ListGalleryItems(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	page, limit := parsePagination(c)
	clientID, ok := parseOptionalUUID(c, "client_id")
	if !ok {
		return
	}

	query := db(c).Model(&models.GalleryItem{}).Scopes(models.OwnedBy(designer.ID))
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}
	if c.Query("is_public") != "" {
		query = query.Where("is_public = ?", parseBoolQuery(c, "is_public", false))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondDatabaseError(c, "Failed to count gallery items", err)
		return
	}

	var items []models.GalleryItem
	if err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&items).Error; err != nil {
		respondDatabaseError(c, "Failed to retrieve gallery items", err)
		return
	}

	respondList(c, items, newPagination(total, page, limit))
}

// GetGalleryItem handles GET /api/v1/gallery/:id - counts a view
func GetGalleryItem(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	item, ok := findGalleryItem(c, designer.ID)
	if !ok {
		return
	}

	if err := db(c).Model(item).UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		respondDatabaseError(c, "Failed to count view", err)
		return
	}
	item.Views++

	respondData(c, http.StatusOK, item)
}

// CreateGalleryItem handles POST /api/v1/gallery
func CreateGalleryItem(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}

	var req CreateGalleryItemRequest
	if !bindJSON(c, &req) {
		return
	}
	if !validGalleryLinks(c, designer.ID, req.ClientID, req.OrderID) {
		return
	}

	item := models.GalleryItem{
		DesignerID:       designer.ID,
		ClientID:         req.ClientID,
		OrderID:          req.OrderID,
		Title:            req.Title,
		Description:      req.Description,
		ImageURL:         req.ImageURL,
		ThumbnailURL:     req.ThumbnailURL,
		Category:         req.Category,
		Tags:             datatypes.JSONSlice[string](req.Tags),
		GarmentType:      req.GarmentType,
		Fabrics:          datatypes.JSONSlice[string](req.Fabrics),
		Colors:           datatypes.JSONSlice[string](req.Colors),
		IsPublic:         req.IsPublic,
		IsFeatured:       req.IsFeatured,
		ClientPermission: req.ClientPermission,
	}
	if item.Category == "" {
		item.Category = "other"
	}

	if err := db(c).Create(&item).Error; err != nil {
		respondDatabaseError(c, "Failed to create gallery item", err)
		return
	}

	respondData(c, http.StatusCreated, item)
}

// UpdateGalleryItem handles PUT /api/v1/gallery/:id
func UpdateGalleryItem(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	item, ok := findGalleryItem(c, designer.ID)
	if !ok {
		return
	}

	var req UpdateGalleryItemRequest
	if !bindJSON(c, &req) {
		return
	}
	if !validGalleryLinks(c, designer.ID, req.ClientID, req.OrderID) {
		return
	}

	if req.ClientID != nil {
		item.ClientID = req.ClientID
	}
	if req.OrderID != nil {
		item.OrderID = req.OrderID
	}
	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	if req.ThumbnailURL != nil {
		item.ThumbnailURL = *req.ThumbnailURL
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Tags != nil {
		item.Tags = datatypes.JSONSlice[string](*req.Tags)
	}
	if req.GarmentType != nil {
		item.GarmentType = *req.GarmentType
	}
	if req.Fabrics != nil {
		item.Fabrics = datatypes.JSONSlice[string](*req.Fabrics)
	}
	if req.Colors != nil {
		item.Colors = datatypes.JSONSlice[string](*req.Colors)
	}
	if req.IsPublic != nil {
		item.IsPublic = *req.IsPublic
	}
	if req.IsFeatured != nil {
		item.IsFeatured = *req.IsFeatured
	}
	if req.ClientPermission != nil {
		item.ClientPermission = *req.ClientPermission
	}

	if err := db(c).Save(item).Error; err != nil {
		respondDatabaseError(c, "Failed to update gallery item", err)
		return
	}

	respondData(c, http.StatusOK, item)
}

// DeleteGalleryItem handles DELETE /api/v1/gallery/:id
func DeleteGalleryItem(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	item, ok := findGalleryItem(c, designer.ID)
	if !ok {
		return
	}

	if err := db(c).Delete(item).Error; err != nil {
		respondDatabaseError(c, "Failed to delete gallery item", err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"id": item.ID})
}

// GalleryCategoryCount is the number of photos in one category
type GalleryCategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// GetGalleryCategories handles GET /api/v1/gallery/categories - counts per category
func GetGalleryCategories(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}

	var rows []GalleryCategoryCount
	if err := db(c).Model(&models.GalleryItem{}).Scopes(models.OwnedBy(designer.ID)).
		Select("category, COUNT(*) AS count").Group("category").Scan(&rows).Error; err != nil {
		respondDatabaseError(c, "Failed to count gallery categories", err)
		return
	}

	counts := make(map[string]int64, len(rows))
	var total int64
	for _, r := range rows {
		counts[r.Category] = r.Count
		total += r.Count
	}
	categories := make([]GalleryCategoryCount, 0, len(models.GalleryCategories))
	for _, name := range models.GalleryCategories {
		categories = append(categories, GalleryCategoryCount{Category: name, Count: counts[name]})
	}

	respondData(c, http.StatusOK, gin.H{
		"categories": categories,
		"total":      total,
	})
}

// ListPublicGallery handles GET /api/v1/gallery/public - anonymous portfolio browsing
func ListPublicGallery(c *gin.Context) {
	page, limit := parsePagination(c)
	designerID, ok := parseOptionalUUID(c, "designer_id")
	if !ok {
		return
	}

	query := db(c).Model(&models.GalleryItem{}).Where("is_public = ?", true)
	if designerID != nil {
		query = query.Scopes(models.OwnedBy(*designerID))
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondDatabaseError(c, "Failed to count gallery items", err)
		return
	}

	var items []models.GalleryItem
	if err := query.Order("is_featured DESC").Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).Find(&items).Error; err != nil {
		respondDatabaseError(c, "Failed to retrieve gallery items", err)
		return
	}

	public := make([]models.PublicGalleryItem, 0, len(items))
	for i := range items {
		public = append(public, items[i].Public())
	}

	respondList(c, public, newPagination(total, page, limit))
}
