package engine

import "github.com/shopspring/decimal"

// RFMSummary averages the RFM metrics over all customers.
type RFMSummary struct {
	Customers        int             `json:"customers"`
	AverageRecency   float64         `json:"average_recency"`
	AverageFrequency float64         `json:"average_frequency"`
	AverageMonetary  decimal.Decimal `json:"average_monetary"`
}

// SummarizeRFM averages the RFM metrics across rows.
// An empty slice yields ErrEmptyInput.
func SummarizeRFM(rows []RFMRow) (RFMSummary, error) {
	if len(rows) == 0 {
		return RFMSummary{}, ErrEmptyInput
	}
	var (
		recency   int
		frequency int
		monetary  = decimal.Zero
	)
	for _, row := range rows {
		recency += row.Recency
		frequency += row.Frequency
		monetary = monetary.Add(row.Monetary)
	}
	n := len(rows)
	return RFMSummary{
		Customers:        n,
		AverageRecency:   float64(recency) / float64(n),
		AverageFrequency: float64(frequency) / float64(n),
		AverageMonetary:  monetary.Div(decimal.NewFromInt(int64(n))),
	}, nil
}
