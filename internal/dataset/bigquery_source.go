package dataset

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

const ordersSelectSQL = `
SELECT
  CAST(customer_unique_id AS STRING) AS customer_unique_id,
  CAST(order_id AS STRING) AS order_id,
  CAST(%s AS STRING) AS category,
  CAST(review_score AS STRING) AS review_score,
  CAST(payment_value AS STRING) AS payment_value,
  CAST(customer_state AS STRING) AS customer_state,
  CAST(order_purchase_timestamp AS STRING) AS order_purchase_timestamp,
  CAST(order_delivered_customer_date AS STRING) AS order_delivered_customer_date
FROM %s
ORDER BY order_purchase_timestamp ASC
`

// OrdersWarehouse is the slice of the BigQuery client the source needs.
type OrdersWarehouse interface {
	OrdersTable() string
	OrdersSchema(ctx context.Context) (bigquery.Schema, error)
	Query(ctx context.Context, sql string, params []bigquery.QueryParameter) (*bigquery.RowIterator, error)
}

// BigQuerySource reads order lines from a warehouse table.
type BigQuerySource struct {
	warehouse OrdersWarehouse
}

func NewBigQuerySource(warehouse OrdersWarehouse) *BigQuerySource {
	return &BigQuerySource{warehouse: warehouse}
}

func (s *BigQuerySource) Name() string {
	return "bigquery"
}

type bigQueryOrderRow struct {
	CustomerUniqueID bigquery.NullString `bigquery:"customer_unique_id"`
	OrderID          bigquery.NullString `bigquery:"order_id"`
	Category         bigquery.NullString `bigquery:"category"`
	ReviewScore      bigquery.NullString `bigquery:"review_score"`
	PaymentValue     bigquery.NullString `bigquery:"payment_value"`
	CustomerState    bigquery.NullString `bigquery:"customer_state"`
	PurchasedAt      bigquery.NullString `bigquery:"order_purchase_timestamp"`
	DeliveredAt      bigquery.NullString `bigquery:"order_delivered_customer_date"`
}

func (r bigQueryOrderRow) raw() rawRecord {
	return rawRecord{
		CustomerUniqueID: r.CustomerUniqueID.StringVal,
		OrderID:          r.OrderID.StringVal,
		Category:         r.Category.StringVal,
		ReviewScore:      r.ReviewScore.StringVal,
		PaymentValue:     r.PaymentValue.StringVal,
		CustomerState:    r.CustomerState.StringVal,
		PurchasedAt:      r.PurchasedAt.StringVal,
		DeliveredAt:      r.DeliveredAt.StringVal,
	}
}

func (s *BigQuerySource) Load(ctx context.Context, policy CustomerKeyPolicy) (*Batch, error) {
	schema, err := s.warehouse.OrdersSchema(ctx)
	if err != nil {
		return nil, err
	}
	categoryColumn, err := checkSchema(schema)
	if err != nil {
		return nil, err
	}

	it, err := s.warehouse.Query(ctx, fmt.Sprintf(ordersSelectSQL, categoryColumn, s.warehouse.OrdersTable()), nil)
	if err != nil {
		return nil, fmt.Errorf("query orders table: %w", err)
	}

	c := newCollector(policy)
	for line := 1; ; line++ {
		var row bigQueryOrderRow
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read orders row %d: %w", line, err)
		}
		c.add(line, row.raw())
	}
	return c.result(), nil
}

// checkSchema verifies the required columns and returns the name of the
// category column, which exports label differently.
func checkSchema(schema bigquery.Schema) (string, error) {
	present := make(map[string]string, len(schema))
	for _, f := range schema {
		name := strings.ToLower(f.Name)
		logical := name
		if alias, ok := columnAliases[name]; ok {
			logical = alias
		}
		if _, seen := present[logical]; !seen {
			present[logical] = f.Name
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return "", &MissingColumnError{Columns: missing}
	}
	return present[ColumnCategory], nil
}
