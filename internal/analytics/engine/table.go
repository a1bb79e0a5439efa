package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderRecord is one order line of the flat transaction table.
type OrderRecord struct {
	CustomerID       string
	CustomerUniqueID string
	OrderID          string
	CategoryLabel    string
	ReviewScore      *float64
	PaymentValue     decimal.Decimal
	CustomerState    string
	PurchasedAt      time.Time
	DeliveredAt      *time.Time
}

// Table is an immutable set of order lines. Every engine function takes a
// table and returns new values; none of them mutates the table it was given.
type Table struct {
	rows []OrderRecord
}

// NewTable copies records into a new table, preserving their order.
func NewTable(records []OrderRecord) *Table {
	rows := make([]OrderRecord, len(records))
	copy(rows, records)
	return &Table{rows: rows}
}

// Len returns the number of order lines; a nil table is empty.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Records returns a copy of the rows.
func (t *Table) Records() []OrderRecord {
	if t == nil {
		return nil
	}
	out := make([]OrderRecord, len(t.rows))
	copy(out, t.rows)
	return out
}

// Bounds returns the earliest and latest purchase timestamps. ok is false for
// an empty table.
func (t *Table) Bounds() (earliest, latest time.Time, ok bool) {
	if t.Len() == 0 {
		return time.Time{}, time.Time{}, false
	}
	earliest, latest = t.rows[0].PurchasedAt, t.rows[0].PurchasedAt
	for _, row := range t.rows[1:] {
		if row.PurchasedAt.Before(earliest) {
			earliest = row.PurchasedAt
		}
		if row.PurchasedAt.After(latest) {
			latest = row.PurchasedAt
		}
	}
	return earliest, latest, true
}
