package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryTable() *Table {
	return NewTable([]OrderRecord{
		record("a", "o1", day(1), "10.50", withCategory("toys"), withScore(5)),
		record("b", "o2", day(2), "4.50", withCategory("bed_bath"), withScore(2)),
		record("c", "o3", day(3), "20", withCategory("toys"), withScore(4)),
		record("d", "o4", day(4), "7", withCategory("toys")),
		record("e", "o5", day(5), "3", withCategory("auto")),
		record("f", "o6", day(6), "99"),
	})
}

func TestReviewByCategory(t *testing.T) {
	rows := ReviewByCategory(categoryTable())
	require.Len(t, rows, 3)

	assert.Equal(t, "auto", rows[0].CategoryLabel)
	assert.Nil(t, rows[0].MeanReviewScore)
	assert.Equal(t, 0, rows[0].ReviewCount)

	assert.Equal(t, "bed_bath", rows[1].CategoryLabel)
	require.NotNil(t, rows[1].MeanReviewScore)
	assert.InDelta(t, 2.0, *rows[1].MeanReviewScore, 1e-9)

	assert.Equal(t, "toys", rows[2].CategoryLabel)
	require.NotNil(t, rows[2].MeanReviewScore)
	assert.InDelta(t, 4.5, *rows[2].MeanReviewScore, 1e-9)
	assert.Equal(t, 2, rows[2].ReviewCount)
}

func TestRevenueByCategory(t *testing.T) {
	rows := RevenueByCategory(categoryTable())
	require.Len(t, rows, 3)

	assert.Equal(t, "auto", rows[0].CategoryLabel)
	assert.True(t, rows[0].TotalPaymentValue.Equal(money("3")))
	assert.Equal(t, "toys", rows[2].CategoryLabel)
	assert.True(t, rows[2].TotalPaymentValue.Equal(money("37.50")))
	assert.Equal(t, 3, rows[2].OrderLines)
}

func TestCategoryAggregatesOmitAbsentCategories(t *testing.T) {
	filtered, err := FilterRange(categoryTable(), day(1), day(2))
	require.NoError(t, err)

	reviews := ReviewByCategory(filtered)
	require.Len(t, reviews, 2)
	for _, row := range reviews {
		assert.NotEqual(t, "auto", row.CategoryLabel)
	}
	assert.Empty(t, RevenueByCategory(NewTable(nil)))
}

func TestCategoryAggregatesAreIdempotent(t *testing.T) {
	table := categoryTable()
	assert.Equal(t, ReviewByCategory(table), ReviewByCategory(table))
	assert.Equal(t, RevenueByCategory(table), RevenueByCategory(table))
}
