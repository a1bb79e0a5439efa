package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

func day(d int) time.Time {
	return time.Date(2018, time.January, d, 0, 0, 0, 0, time.UTC)
}

func at(d, hour int) time.Time {
	return time.Date(2018, time.January, d, hour, 30, 0, 0, time.UTC)
}

func score(v float64) *float64 {
	return &v
}

func money(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

type recordOpt func(*OrderRecord)

func withCategory(label string) recordOpt {
	return func(r *OrderRecord) { r.CategoryLabel = label }
}

func withScore(v float64) recordOpt {
	return func(r *OrderRecord) { r.ReviewScore = score(v) }
}

func withState(state string) recordOpt {
	return func(r *OrderRecord) { r.CustomerState = state }
}

func record(customer, order string, purchased time.Time, payment string, opts ...recordOpt) OrderRecord {
	r := OrderRecord{
		CustomerID:       customer,
		CustomerUniqueID: customer,
		OrderID:          order,
		PaymentValue:     money(payment),
		PurchasedAt:      purchased,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}
