package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type serviceEntry struct {
	name, description, category, unit string
	price                             float64
	hours                             float64
	days                              int
}

var starterServices = []serviceEntry{
	{name: "Pink princess dress", category: "tailoring", unit: "unit", price: 150, days: 14,
		description: "Tulle dress with floral embroidery and satin ribbon. Sizes 5 to 7."},
	{name: "White elegance dress", category: "tailoring", unit: "unit", price: 180, days: 14,
		description: "French lace and pearls. Sizes 8 to 10."},
	{name: "Sky blue dress", category: "tailoring", unit: "unit", price: 95, days: 7,
		description: "Everyday dress with style. Sizes 2 to 4."},
	{name: "Imperial gold dress", category: "tailoring", unit: "unit", price: 220, days: 21,
		description: "For special occasions. Sizes 11 to 14."},
	{name: "Violet dream dress", category: "tailoring", unit: "unit", price: 165, days: 14,
		description: "Tulle with glitter details. Sizes 5 to 7."},
	{name: "Romantic pink dress", category: "tailoring", unit: "unit", price: 175, days: 14,
		description: "Pastel pink lace. Sizes 8 to 10."},
	{name: "Custom party dress", category: "tailoring", unit: "unit", price: 200, days: 21,
		description: "Custom design, premium fabrics and unique details for celebrations."},
	{name: "Special event dress", category: "tailoring", unit: "unit", price: 250, days: 28,
		description: "Weddings, communions and ceremonies. Hand embroidery and luxury finishes."},
	{name: "Full custom design", category: "design", unit: "unit", price: 300, days: 35,
		description: "Dress designed from scratch with design consulting, exclusive sketches and several fittings."},
	{name: "Made-to-measure curtains", category: "other", unit: "meter", price: 80, days: 7,
		description: "Custom curtains measured and installed."},
	{name: "Decorative cushions", category: "other", unit: "unit", price: 35, days: 3,
		description: "Home cushions in premium fabrics."},
	{name: "Fittings and alterations", category: "alterations", unit: "hour", price: 25, hours: 2,
		description: "Professional adjustments and redesign of existing dresses."},
	{name: "Dress and accessories package", category: "tailoring", unit: "unit", price: 280, days: 21,
		description: "Dress with coordinated shoes, headband and bag."},
	{name: "Design consultation", category: "consulting", unit: "hour", price: 50, hours: 2,
		description: "Advisory session with preliminary sketches."},
	{name: "Custom embroidery", category: "alterations", unit: "unit", price: 30, hours: 4,
		description: "Handmade embroidery with an exclusive design."},
	{name: "Imported premium fabric", category: "other", unit: "meter", price: 25,
		description: "Upgrade to imported high quality fabric."},
	{name: "Crystal details", category: "alterations", unit: "unit", price: 35, hours: 3,
		description: "Premium crystal and rhinestone application."},
}

// StarterServices returns the starter catalog owned by designerID, in display order
func StarterServices(designerID uuid.UUID) []ServiceOffering {
	services := make([]ServiceOffering, 0, len(starterServices))
	for i, e := range starterServices {
		s := ServiceOffering{
			DesignerID:  designerID,
			Name:        e.name,
			Description: e.description,
			Category:    e.category,
			BasePrice:   e.price,
			PriceUnit:   e.unit,
			IsActive:    true,
			SortOrder:   i,
		}
		if e.hours > 0 {
			hours := e.hours
			s.EstimatedHours = &hours
		}
		if e.days > 0 {
			days := e.days
			s.EstimatedDays = &days
		}
		services = append(services, s)
	}
	return services
}

// SeedServices inserts the starter catalog for designerID unless the designer
// already has services. It returns the number of services the designer has
// afterwards and whether it inserted them.
func SeedServices(db *gorm.DB, designerID uuid.UUID) (int64, bool, error) {
	var count int64
	if err := db.Model(&ServiceOffering{}).Where("designer_id = ?", designerID).Count(&count).Error; err != nil {
		return 0, false, err
	}
	if count > 0 {
		return count, false, nil
	}

	services := StarterServices(designerID)
	if err := db.Create(&services).Error; err != nil {
		return 0, false, err
	}
	return int64(len(services)), true, nil
}
