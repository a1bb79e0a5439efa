package dataset

import "strings"

const (
	ColumnCustomerUniqueID = "customer_unique_id"
	ColumnOrderID          = "order_id"
	ColumnCategory         = "category"
	ColumnReviewScore      = "review_score"
	ColumnPaymentValue     = "payment_value"
	ColumnCustomerState    = "customer_state"
	ColumnPurchasedAt      = "order_purchase_timestamp"
	ColumnDeliveredAt      = "order_delivered_customer_date"
)

// RequiredColumns lists the logical columns every source must provide.
var RequiredColumns = []string{
	ColumnCustomerUniqueID,
	ColumnOrderID,
	ColumnCategory,
	ColumnReviewScore,
	ColumnPaymentValue,
	ColumnCustomerState,
	ColumnPurchasedAt,
	ColumnDeliveredAt,
}

// columnAliases maps header names found in exports to logical columns.
var columnAliases = map[string]string{
	"product_category_name_english": ColumnCategory,
	"category_eng":                  ColumnCategory,
}

// resolveHeader maps logical column names to their index in header. The
// first header matching a column wins.
func resolveHeader(header []string) (map[string]int, error) {
	index := make(map[string]int, len(RequiredColumns))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if alias, ok := columnAliases[name]; ok {
			name = alias
		}
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Columns: missing}
	}
	return index, nil
}
