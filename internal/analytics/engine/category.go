package engine

import "github.com/shopspring/decimal"

// CategoryReview is the mean review score of one category.
type CategoryReview struct {
	CategoryLabel   string   `json:"category"`
	MeanReviewScore *float64 `json:"mean_review_score"`
	ReviewCount     int      `json:"review_count"`
}

// CategoryRevenue is the summed payment value of one category.
type CategoryRevenue struct {
	CategoryLabel     string          `json:"category"`
	TotalPaymentValue decimal.Decimal `json:"total_payment_value"`
	OrderLines        int             `json:"order_lines"`
}

// ReviewByCategory averages the present review scores per category. A
// category whose rows carry no score still yields a row, with a nil mean.
func ReviewByCategory(table *Table) []CategoryReview {
	keys, groups := groupBy(table, func(r OrderRecord) string { return r.CategoryLabel })
	out := make([]CategoryReview, 0, len(keys))
	for _, label := range keys {
		var (
			sum   float64
			count int
		)
		for _, idx := range groups[label] {
			score := table.rows[idx].ReviewScore
			if score == nil {
				continue
			}
			sum += *score
			count++
		}
		row := CategoryReview{CategoryLabel: label, ReviewCount: count}
		if count > 0 {
			mean := sum / float64(count)
			row.MeanReviewScore = &mean
		}
		out = append(out, row)
	}
	return out
}

// RevenueByCategory sums payment values per category.
func RevenueByCategory(table *Table) []CategoryRevenue {
	keys, groups := groupBy(table, func(r OrderRecord) string { return r.CategoryLabel })
	out := make([]CategoryRevenue, 0, len(keys))
	for _, label := range keys {
		total := decimal.Zero
		for _, idx := range groups[label] {
			total = total.Add(table.rows[idx].PaymentValue)
		}
		out = append(out, CategoryRevenue{
			CategoryLabel:     label,
			TotalPaymentValue: total,
			OrderLines:        len(groups[label]),
		})
	}
	return out
}
