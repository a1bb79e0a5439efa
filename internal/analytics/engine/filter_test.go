package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterRangeInclusiveBounds(t *testing.T) {
	table := NewTable([]OrderRecord{
		record("a", "o1", at(1, 10), "1"),
		record("b", "o2", day(3), "2"),
		record("c", "o3", at(5, 8), "3"),
		record("d", "o4", day(7), "4"),
	})

	filtered, err := FilterRange(table, day(3), at(5, 8))
	require.NoError(t, err)
	require.Equal(t, 2, filtered.Len())

	for _, row := range filtered.Records() {
		assert.False(t, row.PurchasedAt.Before(day(3)))
		assert.False(t, row.PurchasedAt.After(at(5, 8)))
	}
	assert.Equal(t, 4, table.Len(), "input must not be mutated")
}

func TestFilterRangeWithOwnBoundsReturnsEverything(t *testing.T) {
	table := NewTable([]OrderRecord{
		record("a", "o1", at(2, 10), "1"),
		record("b", "o2", at(9, 1), "2"),
		record("c", "o3", at(4, 4), "3"),
	})
	earliest, latest, ok := table.Bounds()
	require.True(t, ok)

	filtered, err := FilterRange(table, earliest, latest)
	require.NoError(t, err)
	assert.Equal(t, table.Records(), filtered.Records())
}

func TestFilterRangeRejectsInvertedRange(t *testing.T) {
	_, err := FilterRange(NewTable(nil), day(5), day(1))
	assert.True(t, errors.Is(err, ErrInvalidRange))
}

func TestFilterRangeOnNilTable(t *testing.T) {
	filtered, err := FilterRange(nil, day(1), day(2))
	require.NoError(t, err)
	assert.Equal(t, 0, filtered.Len())
}

func TestBoundsOnEmptyTable(t *testing.T) {
	_, _, ok := NewTable(nil).Bounds()
	assert.False(t, ok)
}
