package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RFMRow holds the recency, frequency and monetary metrics of one customer.
type RFMRow struct {
	CustomerID string          `json:"customer_id"`
	Frequency  int             `json:"frequency"`
	Monetary   decimal.Decimal `json:"monetary"`
	Recency    int             `json:"recency"`
}

// AnchorDate is the calendar date of the latest purchase in the table.
func AnchorDate(table *Table) (CalendarDate, error) {
	_, latest, ok := table.Bounds()
	if !ok {
		return CalendarDate{}, ErrEmptyInput
	}
	return DateOf(latest), nil
}

// ComputeRFM derives one RFMRow per customer, ordered by customer id.
//
// Recency is measured in whole days from each customer's last order date to
// the anchor date of the whole table, so it is never negative. Frequency
// counts distinct order ids; monetary sums every order line.
func ComputeRFM(table *Table) ([]RFMRow, error) {
	anchor, err := AnchorDate(table)
	if err != nil {
		return nil, err
	}

	keys, groups := groupBy(table, func(r OrderRecord) string { return r.CustomerID })
	out := make([]RFMRow, 0, len(keys))
	for _, customer := range keys {
		var (
			last     CalendarDate
			orders   = make(map[string]struct{})
			monetary = decimal.Zero
		)
		for _, idx := range groups[customer] {
			row := table.rows[idx]
			if day := DateOf(row.PurchasedAt); last.IsZero() || day.After(last) {
				last = day
			}
			if id := strings.TrimSpace(row.OrderID); id != "" {
				orders[id] = struct{}{}
			}
			monetary = monetary.Add(row.PaymentValue)
		}
		out = append(out, RFMRow{
			CustomerID: customer,
			Frequency:  len(orders),
			Monetary:   monetary,
			Recency:    anchor.DaysSince(last),
		})
	}
	return out, nil
}
