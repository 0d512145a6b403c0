package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureRecordChanges(t *testing.T) {
	at := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	previous := Measure{FitType: FitRegular, Upper: UpperMeasures{Bust: cm(88), Waist: cm(70)}}
	current := previous
	current.FitType = FitTight
	current.Upper.Bust = cm(90.5)
	current.Upper.Waist = cm(70)
	current.Arms.Wrist = cm(15)

	added := current.RecordChanges(&previous, at, "Second fitting")

	require.Equal(t, 3, added)
	require.Len(t, current.ChangeLog, 3)
	byField := map[string]ChangeLogEntry{}
	for _, e := range current.ChangeLog {
		byField[e.Field] = e
	}
	assert.Equal(t, ChangeLogEntry{Date: at, Field: "fit_type", OldValue: FitRegular, NewValue: FitTight, Note: "Second fitting"}, byField["fit_type"])
	assert.Equal(t, "88", byField["upper.bust"].OldValue)
	assert.Equal(t, "90.5", byField["upper.bust"].NewValue)
	assert.Equal(t, "", byField["arms.wrist"].OldValue)
	assert.Equal(t, "15", byField["arms.wrist"].NewValue)
	assert.NotContains(t, byField, "upper.waist")
}

func TestMeasureRecordChanges_NothingChanged(t *testing.T) {
	previous := Measure{FitType: FitLoose, Label: "Summer", Pants: PantsMeasures{Waist: cm(72)}}
	current := previous
	current.Pants.Waist = cm(72)

	assert.Equal(t, 0, current.RecordChanges(&previous, time.Now(), ""))
	assert.Empty(t, current.ChangeLog)
}

func TestMeasureRecordChanges_SameKeyInTwoGroups(t *testing.T) {
	previous := Measure{}
	current := Measure{Upper: UpperMeasures{Waist: cm(70)}, Pants: PantsMeasures{Waist: cm(74)}}

	current.RecordChanges(&previous, time.Now(), "")

	fields := []string{}
	for _, e := range current.ChangeLog {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"upper.waist", "pants.waist"}, fields)
}

func TestMeasureBeforeSave(t *testing.T) {
	db := newTestDB(t)
	measure := Measure{ClientID: uuid.New(), DesignerID: uuid.New(), Upper: UpperMeasures{Bust: cm(92)}}

	require.NoError(t, db.Create(&measure).Error)
	assert.Equal(t, "L", measure.SuggestedSize)
	assert.Equal(t, FitRegular, measure.FitType)
	assert.NotNil(t, measure.ChangeLog)

	measure.Upper.Bust = nil
	require.NoError(t, db.Save(&measure).Error)

	var stored Measure
	require.NoError(t, db.First(&stored, "id = ?", measure.ID).Error)
	assert.Equal(t, "", stored.SuggestedSize)
	assert.Nil(t, stored.Upper.Bust)
}

func TestMeasureGroups(t *testing.T) {
	m := Measure{Upper: UpperMeasures{Bust: cm(88), Hip: cm(96)}, Lower: LowerMeasures{BackWaistWidth: cm(18)}}

	groups := m.Groups()

	require.Len(t, groups, 4)
	assert.Equal(t, []string{"upper", "arms", "pants", "lower"}, []string{groups[0].Key, groups[1].Key, groups[2].Key, groups[3].Key})
	assert.Equal(t, 2, groups[0].Filled())
	assert.Equal(t, 0, groups[1].Filled())
	assert.Equal(t, 3, m.FilledCount())
	assert.Equal(t, 34, TotalMeasureFields)

	keys := MeasureFieldKeys()
	assert.True(t, keys["upper"]["bust"])
	assert.True(t, keys["pants"]["skirt_length"])
	assert.False(t, keys["arms"]["bust"])
}
