package models

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TemplateScopeSystem   = "system"
	TemplateScopeDesigner = "designer"
)

// TemplateOwner tells system templates apart from designer-owned ones.
// It is either SystemOwner or DesignerOwner.
type TemplateOwner interface {
	scope() string
	designer() *uuid.UUID
}

// SystemOwner owns the shared catalog templates
type SystemOwner struct{}

func (SystemOwner) scope() string        { return TemplateScopeSystem }
func (SystemOwner) designer() *uuid.UUID { return nil }

// DesignerOwner owns a template a designer created
type DesignerOwner struct {
	DesignerID uuid.UUID
}

func (o DesignerOwner) scope() string { return TemplateScopeDesigner }
func (o DesignerOwner) designer() *uuid.UUID {
	id := o.DesignerID
	return &id
}

// MeasureFieldSet lists measurement field keys per group
type MeasureFieldSet struct {
	Upper []string `json:"upper"`
	Arms  []string `json:"arms"`
	Pants []string `json:"pants"`
	Lower []string `json:"lower"`
}

// Validate rejects keys that are not measurement fields of their group
func (s MeasureFieldSet) Validate() error {
	known := MeasureFieldKeys()
	groups := map[string][]string{"upper": s.Upper, "arms": s.Arms, "pants": s.Pants, "lower": s.Lower}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, key := range groups[name] {
			if !known[name][key] {
				return fmt.Errorf("unknown %s measure %q", name, key)
			}
		}
	}
	return nil
}

// GarmentTemplate declares which measurements a garment type needs
type GarmentTemplate struct {
	Base
	Scope            string                              `gorm:"not null;default:'designer';index" json:"-"`
	DesignerID       *uuid.UUID                          `gorm:"type:uuid;index" json:"designer_id,omitempty"`
	IsSystem         bool                                `gorm:"-" json:"is_system"`
	Name             string                              `gorm:"size:100;not null" json:"name"`
	Category         string                              `gorm:"not null;default:'other'" json:"category"` // top, bottom, dress, suit, accessory, other
	Icon             string                              `json:"icon"`
	Description      string                              `gorm:"size:500" json:"description"`
	RequiredMeasures datatypes.JSONType[MeasureFieldSet] `json:"required_measures"`
	OptionalMeasures datatypes.JSONType[MeasureFieldSet] `json:"optional_measures"`
	DefaultFitType   string                              `gorm:"not null;default:'regular'" json:"default_fit_type"`
	EstimatedDays    int                                 `gorm:"not null;default:7" json:"estimated_days"`
	BasePrice        *float64                            `gorm:"type:decimal(12,2)" json:"base_price,omitempty"`
	IsActive         bool                                `gorm:"not null;default:true" json:"is_active"`
	SortOrder        int                                 `gorm:"not null;default:0" json:"sort_order"`
}

// TableName specifies the table name for the GarmentTemplate model
func (GarmentTemplate) TableName() string {
	return "garment_templates"
}

// SetOwner stores the owner variant on the row
func (t *GarmentTemplate) SetOwner(owner TemplateOwner) {
	t.Scope = owner.scope()
	t.DesignerID = owner.designer()
	t.IsSystem = t.Scope == TemplateScopeSystem
}

// Owner reconstructs the owner variant from the row
func (t *GarmentTemplate) Owner() TemplateOwner {
	if t.Scope == TemplateScopeSystem || t.DesignerID == nil {
		return SystemOwner{}
	}
	return DesignerOwner{DesignerID: *t.DesignerID}
}

// AfterFind exposes the scope to API consumers
func (t *GarmentTemplate) AfterFind(tx *gorm.DB) error {
	t.IsSystem = t.Scope == TemplateScopeSystem
	return nil
}

// DesignerTemplates matches only templates owned by designerID
func DesignerTemplates(designerID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("scope = ? AND designer_id = ?", TemplateScopeDesigner, designerID)
	}
}

// SystemTemplates matches only the shared catalog
func SystemTemplates(db *gorm.DB) *gorm.DB {
	return db.Where("scope = ?", TemplateScopeSystem)
}

// VisibleTemplates matches the designer's templates plus the shared catalog
func VisibleTemplates(designerID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("scope = ? OR (scope = ? AND designer_id = ?)",
			TemplateScopeSystem, TemplateScopeDesigner, designerID)
	}
}
