package engine

import "sort"

const (
	// DefaultCategoryLimit is the size of the best/worst category lists.
	DefaultCategoryLimit = 10
	// DefaultRFMLimit is the size of each RFM leaderboard.
	DefaultRFMLimit = 5
)

// RFMRanking holds the best customers by each RFM metric.
type RFMRanking struct {
	ByRecency   []RFMRow `json:"by_recency"`
	ByFrequency []RFMRow `json:"by_frequency"`
	ByMonetary  []RFMRow `json:"by_monetary"`
}

// TopCategoriesByReview returns the n best rated categories. Categories
// without a score sort last.
func TopCategoriesByReview(rows []CategoryReview, n int) ([]CategoryReview, error) {
	return rankReviews(rows, n, func(a, b float64) bool { return a > b })
}

// BottomCategoriesByReview returns the n worst rated categories. Categories
// without a score sort last.
func BottomCategoriesByReview(rows []CategoryReview, n int) ([]CategoryReview, error) {
	return rankReviews(rows, n, func(a, b float64) bool { return a < b })
}

func rankReviews(rows []CategoryReview, n int, better func(a, b float64) bool) ([]CategoryReview, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}
	out := append([]CategoryReview(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].MeanReviewScore, out[j].MeanReviewScore
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return better(*a, *b)
		}
	})
	return head(out, n), nil
}

// TopCategoriesByRevenue returns the n categories with the highest revenue.
func TopCategoriesByRevenue(rows []CategoryRevenue, n int) ([]CategoryRevenue, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}
	out := append([]CategoryRevenue(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPaymentValue.GreaterThan(out[j].TotalPaymentValue)
	})
	return head(out, n), nil
}

// BottomCategoriesByRevenue returns the n categories with the lowest revenue.
func BottomCategoriesByRevenue(rows []CategoryRevenue, n int) ([]CategoryRevenue, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}
	out := append([]CategoryRevenue(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPaymentValue.LessThan(out[j].TotalPaymentValue)
	})
	return head(out, n), nil
}

// RankRFM returns the n most recent, most frequent and highest spending
// customers.
func RankRFM(rows []RFMRow, n int) (RFMRanking, error) {
	if n <= 0 {
		return RFMRanking{}, ErrInvalidLimit
	}
	byRecency := append([]RFMRow(nil), rows...)
	sort.SliceStable(byRecency, func(i, j int) bool { return byRecency[i].Recency < byRecency[j].Recency })

	byFrequency := append([]RFMRow(nil), rows...)
	sort.SliceStable(byFrequency, func(i, j int) bool { return byFrequency[i].Frequency > byFrequency[j].Frequency })

	byMonetary := append([]RFMRow(nil), rows...)
	sort.SliceStable(byMonetary, func(i, j int) bool { return byMonetary[i].Monetary.GreaterThan(byMonetary[j].Monetary) })

	return RFMRanking{
		ByRecency:   head(byRecency, n),
		ByFrequency: head(byFrequency, n),
		ByMonetary:  head(byMonetary, n),
	}, nil
}

func head[T any](rows []T, n int) []T {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
