package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type catalogEntry struct {
	name, category, icon, description, fit string
	days                                   int
	required, optional                     MeasureFieldSet
}

var systemCatalog = []catalogEntry{
	{
		name: "Wedding dress", category: "dress", icon: "dress", fit: FitTight, days: 30,
		description: "Fitted bridal gown with a full set of torso and skirt measurements",
		required: MeasureFieldSet{
			Upper: []string{"bust", "under_bust", "waist", "hip", "shoulder_width", "torso_length", "bust_height"},
			Pants: []string{"skirt_length"},
			Lower: []string{"back_torso_length", "back_shoulder_width"},
		},
		optional: MeasureFieldSet{
			Upper: []string{"neck", "over_bust", "bust_width"},
			Arms:  []string{"arm_length", "bicep", "wrist"},
		},
	},
	{
		name: "Gala dress", category: "dress", icon: "sparkles", fit: FitTight, days: 14,
		description: "Evening gown",
		required: MeasureFieldSet{
			Upper: []string{"bust", "waist", "hip", "shoulder_width", "torso_length"},
			Pants: []string{"skirt_length"},
		},
		optional: MeasureFieldSet{
			Upper: []string{"under_bust", "bust_height"},
			Arms:  []string{"arm_length", "bicep"},
			Lower: []string{"back_torso_length"},
		},
	},
	{
		name: "Quinceanera dress", category: "dress", icon: "crown", fit: FitTight, days: 21,
		description: "Ball gown with a fitted bodice",
		required: MeasureFieldSet{
			Upper: []string{"bust", "under_bust", "waist", "hip", "shoulder_width", "torso_length"},
			Pants: []string{"skirt_length"},
		},
		optional: MeasureFieldSet{
			Upper: []string{"bust_height"},
			Arms:  []string{"arm_length", "bicep"},
			Lower: []string{"back_torso_length"},
		},
	},
	{
		name: "Basic blouse", category: "top", icon: "shirt", fit: FitRegular, days: 5,
		description: "Everyday blouse",
		required: MeasureFieldSet{
			Upper: []string{"bust", "waist", "shoulder_width", "torso_length"},
			Arms:  []string{"arm_length"},
		},
		optional: MeasureFieldSet{
			Upper: []string{"neck", "hip"},
			Arms:  []string{"bicep", "wrist"},
		},
	},
	{
		name: "Blazer", category: "top", icon: "briefcase", fit: FitRegular, days: 10,
		description: "Tailored jacket",
		required: MeasureFieldSet{
			Upper: []string{"bust", "waist", "hip", "shoulder_width", "torso_length"},
			Arms:  []string{"arm_length", "bicep", "wrist"},
		},
		optional: MeasureFieldSet{
			Upper: []string{"neck"},
			Lower: []string{"back_shoulder_width", "back_torso_length"},
		},
	},
	{
		name: "Skirt", category: "bottom", icon: "skirt", fit: FitRegular, days: 3,
		description: "Straight or flared skirt",
		required: MeasureFieldSet{
			Pants: []string{"waist", "hip", "skirt_length"},
		},
		optional: MeasureFieldSet{
			Pants: []string{"hip_height"},
		},
	},
	{
		name: "Trousers", category: "bottom", icon: "trousers", fit: FitRegular, days: 5,
		description: "Tailored trousers",
		required: MeasureFieldSet{
			Pants: []string{"waist", "hip", "seat_height", "trouser_length"},
		},
		optional: MeasureFieldSet{
			Pants: []string{"hip_height"},
		},
	},
	{
		name: "Full suit", category: "suit", icon: "suit", fit: FitRegular, days: 21,
		description: "Jacket and trousers",
		required: MeasureFieldSet{
			Upper: []string{"bust", "waist", "hip", "shoulder_width", "torso_length"},
			Arms:  []string{"arm_length", "bicep"},
			Pants: []string{"waist", "hip", "trouser_length"},
		},
		optional: MeasureFieldSet{
			Upper: []string{"neck"},
			Arms:  []string{"wrist"},
			Pants: []string{"seat_height"},
			Lower: []string{"back_shoulder_width"},
		},
	},
}

// SystemTemplateCatalog returns fresh copies of the shared garment templates
func SystemTemplateCatalog() []GarmentTemplate {
	templates := make([]GarmentTemplate, 0, len(systemCatalog))
	for i, e := range systemCatalog {
		t := GarmentTemplate{
			Name:             e.name,
			Category:         e.category,
			Icon:             e.icon,
			Description:      e.description,
			RequiredMeasures: datatypes.NewJSONType(e.required),
			OptionalMeasures: datatypes.NewJSONType(e.optional),
			DefaultFitType:   e.fit,
			EstimatedDays:    e.days,
			IsActive:         true,
			SortOrder:        i,
		}
		t.SetOwner(SystemOwner{})
		templates = append(templates, t)
	}
	return templates
}

// SeedSystemTemplates inserts the shared catalog unless some system template
// already exists. It returns the number of system templates present afterwards
// and whether it inserted them.
func SeedSystemTemplates(db *gorm.DB) (int64, bool, error) {
	var count int64
	if err := db.Model(&GarmentTemplate{}).Scopes(SystemTemplates).Count(&count).Error; err != nil {
		return 0, false, err
	}
	if count > 0 {
		return count, false, nil
	}

	templates := SystemTemplateCatalog()
	if err := db.Create(&templates).Error; err != nil {
		return 0, false, err
	}
	return int64(len(templates)), true, nil
}
