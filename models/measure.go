package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	FitTight   = "tight"
	FitRegular = "regular"
	FitLoose   = "loose"
)

// UpperMeasures are the front and torso measurements in centimeters
type UpperMeasures struct {
	Neck              *float64 `json:"neck,omitempty" binding:"omitempty,gte=0,lte=200"`
	OverBust          *float64 `json:"over_bust,omitempty" binding:"omitempty,gte=0,lte=200"`
	Bust              *float64 `json:"bust,omitempty" binding:"omitempty,gte=0,lte=200"`
	UnderBust         *float64 `json:"under_bust,omitempty" binding:"omitempty,gte=0,lte=200"`
	Waist             *float64 `json:"waist,omitempty" binding:"omitempty,gte=0,lte=200"`
	Hip               *float64 `json:"hip,omitempty" binding:"omitempty,gte=0,lte=200"`
	Shoulders         *float64 `json:"shoulders,omitempty" binding:"omitempty,gte=0,lte=200"`
	ShoulderWidth     *float64 `json:"shoulder_width,omitempty" binding:"omitempty,gte=0,lte=200"`
	ShoulderDrop      *float64 `json:"shoulder_drop,omitempty" binding:"omitempty,gte=0,lte=200"`
	BustWidth         *float64 `json:"bust_width,omitempty" binding:"omitempty,gte=0,lte=200"`
	BustHeight        *float64 `json:"bust_height,omitempty" binding:"omitempty,gte=0,lte=200"`
	HipHeight         *float64 `json:"hip_height,omitempty" binding:"omitempty,gte=0,lte=200"`
	TorsoLength       *float64 `json:"torso_length,omitempty" binding:"omitempty,gte=0,lte=200"`
	CenterTorsoLength *float64 `json:"center_torso_length,omitempty" binding:"omitempty,gte=0,lte=200"`
}

// ArmMeasures are the sleeve measurements in centimeters
type ArmMeasures struct {
	ArmLength *float64 `json:"arm_length,omitempty" binding:"omitempty,gte=0,lte=200"`
	Bicep     *float64 `json:"bicep,omitempty" binding:"omitempty,gte=0,lte=200"`
	Underarm  *float64 `json:"underarm,omitempty" binding:"omitempty,gte=0,lte=200"`
	Elbow     *float64 `json:"elbow,omitempty" binding:"omitempty,gte=0,lte=200"`
	Wrist     *float64 `json:"wrist,omitempty" binding:"omitempty,gte=0,lte=200"`
	Cuff      *float64 `json:"cuff,omitempty" binding:"omitempty,gte=0,lte=200"`
}

// PantsMeasures cover trousers and skirts
type PantsMeasures struct {
	Waist         *float64 `json:"waist,omitempty" binding:"omitempty,gte=0,lte=200"`
	HipHeight     *float64 `json:"hip_height,omitempty" binding:"omitempty,gte=0,lte=200"`
	Hip           *float64 `json:"hip,omitempty" binding:"omitempty,gte=0,lte=200"`
	SeatHeight    *float64 `json:"seat_height,omitempty" binding:"omitempty,gte=0,lte=200"`
	TrouserLength *float64 `json:"trouser_length,omitempty" binding:"omitempty,gte=0,lte=200"`
	SkirtLength   *float64 `json:"skirt_length,omitempty" binding:"omitempty,gte=0,lte=200"`
}

// LowerMeasures are the back measurements
type LowerMeasures struct {
	BackTorsoLength    *float64 `json:"back_torso_length,omitempty" binding:"omitempty,gte=0,lte=200"`
	BackShoulderWidth  *float64 `json:"back_shoulder_width,omitempty" binding:"omitempty,gte=0,lte=200"`
	BackCenterLength   *float64 `json:"back_center_length,omitempty" binding:"omitempty,gte=0,lte=200"`
	NeckAllowance      *float64 `json:"neck_allowance,omitempty" binding:"omitempty,gte=0,lte=200"`
	BackDropLength     *float64 `json:"back_drop_length,omitempty" binding:"omitempty,gte=0,lte=200"`
	BackChestWidth     *float64 `json:"back_chest_width,omitempty" binding:"omitempty,gte=0,lte=200"`
	ShoulderBladeWidth *float64 `json:"shoulder_blade_width,omitempty" binding:"omitempty,gte=0,lte=200"`
	BackWaistWidth     *float64 `json:"back_waist_width,omitempty" binding:"omitempty,gte=0,lte=200"`
}

// ChangeLogEntry records the previous value of a tracked field
type ChangeLogEntry struct {
	Date     time.Time `json:"date"`
	Field    string    `json:"field"`
	OldValue string    `json:"old_value"`
	NewValue string    `json:"new_value"`
	Note     string    `json:"note,omitempty"`
}

// Measure is one measurement session for a client
type Measure struct {
	Base
	ClientID          uuid.UUID                           `gorm:"type:uuid;not null;index" json:"client_id"`
	DesignerID        uuid.UUID                           `gorm:"type:uuid;not null;index" json:"designer_id"`
	Upper             UpperMeasures                       `gorm:"embedded;embeddedPrefix:upper_" json:"upper"`
	Arms              ArmMeasures                         `gorm:"embedded;embeddedPrefix:arms_" json:"arms"`
	Pants             PantsMeasures                       `gorm:"embedded;embeddedPrefix:pants_" json:"pants"`
	Lower             LowerMeasures                       `gorm:"embedded;embeddedPrefix:lower_" json:"lower"`
	FitType           string                              `gorm:"not null;default:'regular'" json:"fit_type"` // tight, regular, loose
	FabricType        string                              `json:"fabric_type"`
	TechnicalNotes    string                              `gorm:"size:2000" json:"technical_notes"`
	SuggestedSize     string                              `json:"suggested_size"` // derived from Upper.Bust on every save
	Label             string                              `json:"label"`
	ReferencePhotoURL string                              `json:"reference_photo_url"`
	ChangeLog         datatypes.JSONSlice[ChangeLogEntry] `json:"change_log"`
}

// TableName specifies the table name for the Measure model
func (Measure) TableName() string {
	return "measures"
}

// BeforeSave keeps the suggested size in step with the bust measurement
func (m *Measure) BeforeSave(tx *gorm.DB) error {
	m.SuggestedSize = SuggestSize(m.Upper.Bust)
	if m.FitType == "" {
		m.FitType = FitRegular
	}
	if m.ChangeLog == nil {
		m.ChangeLog = datatypes.JSONSlice[ChangeLogEntry]{}
	}
	return nil
}

// trackedField reads one audited attribute of a measure.
type trackedField struct {
	name string
	get  func(*Measure) string
}

var trackedFields = []trackedField{
	{name: "fit_type", get: func(m *Measure) string { return m.FitType }},
	{name: "fabric_type", get: func(m *Measure) string { return m.FabricType }},
	{name: "label", get: func(m *Measure) string { return m.Label }},
}

// RecordChanges appends one change log entry for every tracked attribute and
// every measurement (keyed "group.field") whose value differs from previous.
// It returns the number of entries added.
func (m *Measure) RecordChanges(previous *Measure, at time.Time, note string) int {
	added := 0
	record := func(field, oldValue, newValue string) {
		if oldValue == newValue {
			return
		}
		m.ChangeLog = append(m.ChangeLog, ChangeLogEntry{
			Date:     at,
			Field:    field,
			OldValue: oldValue,
			NewValue: newValue,
			Note:     note,
		})
		added++
	}

	for _, f := range trackedFields {
		record(f.name, f.get(previous), f.get(m))
	}

	before, after := previous.Groups(), m.Groups()
	for gi, g := range after {
		for fi, f := range g.Fields {
			record(g.Key+"."+f.Key, formatMeasure(before[gi].Fields[fi].Value), formatMeasure(f.Value))
		}
	}
	return added
}

func formatMeasure(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// MeasureField is one named measurement inside a group
type MeasureField struct {
	Key   string
	Label string
	Value *float64
}

// MeasureGroup is one of the four sections of a measurement record
type MeasureGroup struct {
	Key    string
	Title  string
	Fields []MeasureField
}

// Filled returns the number of fields in the group that carry a value.
func (g MeasureGroup) Filled() int {
	n := 0
	for _, f := range g.Fields {
		if f.Value != nil {
			n++
		}
	}
	return n
}

// Groups lists the measurement groups in display order with their current values
func (m *Measure) Groups() []MeasureGroup {
	u, a, p, l := &m.Upper, &m.Arms, &m.Pants, &m.Lower
	return []MeasureGroup{
		{Key: "upper", Title: "Front measurements", Fields: []MeasureField{
			{"neck", "Neck circumference", u.Neck},
			{"over_bust", "Over-bust circumference", u.OverBust},
			{"bust", "Bust circumference", u.Bust},
			{"under_bust", "Under-bust circumference", u.UnderBust},
			{"waist", "Waist circumference", u.Waist},
			{"hip", "Hip circumference", u.Hip},
			{"shoulders", "Shoulders", u.Shoulders},
			{"shoulder_width", "Shoulder width", u.ShoulderWidth},
			{"shoulder_drop", "Shoulder drop", u.ShoulderDrop},
			{"bust_width", "Bust width", u.BustWidth},
			{"bust_height", "Bust height", u.BustHeight},
			{"hip_height", "Hip height", u.HipHeight},
			{"torso_length", "Front torso length", u.TorsoLength},
			{"center_torso_length", "Center front length", u.CenterTorsoLength},
		}},
		{Key: "arms", Title: "Arm measurements", Fields: []MeasureField{
			{"arm_length", "Arm length", a.ArmLength},
			{"bicep", "Bicep circumference", a.Bicep},
			{"underarm", "Underarm", a.Underarm},
			{"elbow", "Elbow circumference", a.Elbow},
			{"wrist", "Wrist circumference", a.Wrist},
			{"cuff", "Cuff circumference", a.Cuff},
		}},
		{Key: "pants", Title: "Trousers / Skirt", Fields: []MeasureField{
			{"waist", "Waist circumference", p.Waist},
			{"hip_height", "Hip height", p.HipHeight},
			{"hip", "Hip circumference", p.Hip},
			{"seat_height", "Seat height", p.SeatHeight},
			{"trouser_length", "Trouser length", p.TrouserLength},
			{"skirt_length", "Skirt length", p.SkirtLength},
		}},
		{Key: "lower", Title: "Back measurements", Fields: []MeasureField{
			{"back_torso_length", "Back torso length", l.BackTorsoLength},
			{"back_shoulder_width", "Back shoulder width", l.BackShoulderWidth},
			{"back_center_length", "Back center length", l.BackCenterLength},
			{"neck_allowance", "Neck allowance", l.NeckAllowance},
			{"back_drop_length", "Back drop length", l.BackDropLength},
			{"back_chest_width", "Back chest width", l.BackChestWidth},
			{"shoulder_blade_width", "Shoulder blade width", l.ShoulderBladeWidth},
			{"back_waist_width", "Back waist width", l.BackWaistWidth},
		}},
	}
}

// FilledCount counts present fields across all groups
func (m *Measure) FilledCount() int {
	n := 0
	for _, g := range m.Groups() {
		n += g.Filled()
	}
	return n
}

// TotalMeasureFields is the size of the full field set across the four groups.
var TotalMeasureFields = countFields()

func countFields() int {
	n := 0
	for _, g := range (&Measure{}).Groups() {
		n += len(g.Fields)
	}
	return n
}

// MeasureFieldKeys maps each group key to the set of field keys it accepts
func MeasureFieldKeys() map[string]map[string]bool {
	keys := make(map[string]map[string]bool)
	for _, g := range (&Measure{}).Groups() {
		keys[g.Key] = make(map[string]bool, len(g.Fields))
		for _, f := range g.Fields {
			keys[g.Key][f.Key] = true
		}
	}
	return keys
}
