package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNextSequence(t *testing.T) {
	db := newTestDB(t)

	for want := int64(1); want <= 3; want++ {
		n, err := NextSequence(db, QuoteNumberPrefix, 2026)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	n, err := NextSequence(db, QuoteNumberPrefix, 2027)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "each year starts over")

	n, err = NextSequence(db, OrderNumberPrefix, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "kinds count independently")
}

func TestNextSequence_RollbackReturnsNumber(t *testing.T) {
	db := newTestDB(t)
	failure := errors.New("insert failed")

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := NextSequence(tx, OrderNumberPrefix, 2026); err != nil {
			return err
		}
		return failure
	})
	require.ErrorIs(t, err, failure)

	number, err := NextNumber(db, OrderNumberPrefix, 2026)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-0001", number)
}

func TestFormatSequence(t *testing.T) {
	tests := []struct {
		prefix   string
		year     int
		n        int64
		expected string
	}{
		{QuoteNumberPrefix, 2026, 7, "QUO-2026-0007"},
		{OrderNumberPrefix, 2026, 1234, "ORD-2026-1234"},
		{OrderNumberPrefix, 2027, 12345, "ORD-2027-12345"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatSequence(tt.prefix, tt.year, tt.n))
		})
	}
}
