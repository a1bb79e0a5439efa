package engine

import (
	"sort"
	"strings"
)

// groupBy buckets row indexes by key, skipping blank keys, and returns the
// keys in ascending order. Downstream rankings are stable against that order.
func groupBy(table *Table, key func(OrderRecord) string) ([]string, map[string][]int) {
	groups := make(map[string][]int)
	if table == nil {
		return nil, groups
	}
	for i, row := range table.rows {
		k := key(row)
		if strings.TrimSpace(k) == "" {
			continue
		}
		groups[k] = append(groups[k], i)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, groups
}
