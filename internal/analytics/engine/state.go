package engine

import (
	"sort"
	"strings"
)

const (
	// DefaultStateLimit is the number of states kept by the order-count ranking.
	DefaultStateLimit = 10
	// UnknownState buckets order lines without a customer state so every row
	// is counted somewhere.
	UnknownState = "unknown"
)

// StateOrders counts the order lines of customers in one state.
type StateOrders struct {
	CustomerState string `json:"state"`
	OrderCount    int    `json:"order_count"`
}

// OrdersByState counts rows per customer state. Order lines are counted, not
// distinct orders. The counts sum to table.Len().
func OrdersByState(table *Table) []StateOrders {
	keys, groups := groupBy(table, stateKey)
	out := make([]StateOrders, 0, len(keys))
	for _, state := range keys {
		out = append(out, StateOrders{CustomerState: state, OrderCount: len(groups[state])})
	}
	return out
}

// TopOrdersByState returns the k states with the most order lines. Ties keep
// their grouping order.
func TopOrdersByState(table *Table, k int) ([]StateOrders, error) {
	if k <= 0 {
		return nil, ErrInvalidLimit
	}
	out := OrdersByState(table)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OrderCount > out[j].OrderCount
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func stateKey(r OrderRecord) string {
	if strings.TrimSpace(r.CustomerState) == "" {
		return UnknownState
	}
	return r.CustomerState
}
