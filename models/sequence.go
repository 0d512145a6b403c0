package models

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceCounter is the last number handed out for one kind of record in one year
type SequenceCounter struct {
	Kind  string `gorm:"primaryKey;size:32"`
	Year  int    `gorm:"primaryKey;autoIncrement:false"`
	Value int64  `gorm:"not null"`
}

// TableName specifies the table name for the SequenceCounter model
func (SequenceCounter) TableName() string {
	return "sequence_counters"
}

// NextSequence atomically increments the (kind, year) counter and returns the
// new value. Call it inside the transaction that stores the numbered record so
// a rollback gives the number back.
func NextSequence(tx *gorm.DB, kind string, year int) (int64, error) {
	counter := SequenceCounter{Kind: kind, Year: year, Value: 1}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "kind"}, {Name: "year"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value": gorm.Expr("sequence_counters.value + 1"),
		}),
	}).Create(&counter).Error
	if err != nil {
		return 0, fmt.Errorf("increment %s counter: %w", kind, err)
	}

	if err := tx.Where("kind = ? AND year = ?", kind, year).First(&counter).Error; err != nil {
		return 0, fmt.Errorf("read %s counter: %w", kind, err)
	}
	return counter.Value, nil
}

// FormatSequence renders a human readable number such as QUO-2026-0007
func FormatSequence(prefix string, year int, n int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, n)
}

// NextNumber combines NextSequence and FormatSequence
func NextNumber(tx *gorm.DB, prefix string, year int) (string, error) {
	n, err := NextSequence(tx, prefix, year)
	if err != nil {
		return "", err
	}
	return FormatSequence(prefix, year, n), nil
}
