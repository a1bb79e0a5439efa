package engine

import "time"

// FilterRange keeps the rows purchased within [start, end], both inclusive.
func FilterRange(table *Table, start, end time.Time) (*Table, error) {
	if start.After(end) {
		return nil, ErrInvalidRange
	}
	out := make([]OrderRecord, 0, table.Len())
	if table != nil {
		for _, row := range table.rows {
			if row.PurchasedAt.Before(start) || row.PurchasedAt.After(end) {
				continue
			}
			out = append(out, row)
		}
	}
	return &Table{rows: out}, nil
}
