package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGalleryItemPublic(t *testing.T) {
	clientID, orderID := uuid.New(), uuid.New()
	item := GalleryItem{
		DesignerID: uuid.New(),
		ClientID:   &clientID,
		OrderID:    &orderID,
		Title:      "Ivory gown",
		ImageURL:   "https://cdn.example.com/gown.jpg",
		Category:   "bridal",
		Tags:       []string{"lace"},
		IsPublic:   true,
		IsFeatured: true,
	}

	raw, err := json.Marshal(item.Public())
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "Ivory gown", fields["title"])
	assert.Equal(t, true, fields["is_featured"])
	for _, private := range []string{"client_id", "order_id", "is_public", "client_permission"} {
		assert.NotContains(t, fields, private)
	}
}

func TestGalleryItemBeforeSave(t *testing.T) {
	db := newTestDB(t)
	item := GalleryItem{DesignerID: uuid.New(), ImageURL: "https://cdn.example.com/look.jpg"}

	require.NoError(t, db.Create(&item).Error)

	var stored GalleryItem
	require.NoError(t, db.First(&stored, "id = ?", item.ID).Error)
	assert.Equal(t, item.ImageURL, stored.ThumbnailURL)
	assert.Equal(t, "other", stored.Category)
	assert.NotNil(t, stored.Tags)
	assert.Empty(t, stored.Tags)
	assert.False(t, stored.IsPublic)
}
