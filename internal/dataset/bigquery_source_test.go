package dataset

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/bigquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWarehouse struct {
	schema    bigquery.Schema
	schemaErr error
	queried   string
}

func (f *fakeWarehouse) OrdersTable() string { return "`p.ecommerce.order_lines`" }

func (f *fakeWarehouse) OrdersSchema(context.Context) (bigquery.Schema, error) {
	return f.schema, f.schemaErr
}

func (f *fakeWarehouse) Query(_ context.Context, sql string, _ []bigquery.QueryParameter) (*bigquery.RowIterator, error) {
	f.queried = sql
	return nil, errors.New("warehouse offline")
}

func schemaOf(names ...string) bigquery.Schema {
	schema := make(bigquery.Schema, 0, len(names))
	for _, name := range names {
		schema = append(schema, &bigquery.FieldSchema{Name: name, Type: bigquery.StringFieldType})
	}
	return schema
}

func TestCheckSchemaResolvesCategoryAlias(t *testing.T) {
	column, err := checkSchema(schemaOf(
		"customer_unique_id", "order_id", "product_category_name_english", "review_score",
		"payment_value", "customer_state", "order_purchase_timestamp", "order_delivered_customer_date",
	))
	require.NoError(t, err)
	assert.Equal(t, "product_category_name_english", column)
}

func TestCheckSchemaReportsMissingColumns(t *testing.T) {
	_, err := checkSchema(schemaOf("customer_unique_id", "order_id", "category"))

	var missing *MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Contains(t, missing.Columns, ColumnPurchasedAt)
	assert.NotContains(t, missing.Columns, ColumnCategory)
}

func TestBigQuerySourceQueriesConfiguredTable(t *testing.T) {
	warehouse := &fakeWarehouse{schema: schemaOf(
		"customer_unique_id", "order_id", "category", "review_score",
		"payment_value", "customer_state", "order_purchase_timestamp", "order_delivered_customer_date",
	)}

	_, err := NewBigQuerySource(warehouse).Load(context.Background(), NewCustomerKeyPolicy(5))
	require.Error(t, err)
	assert.Contains(t, warehouse.queried, "FROM `p.ecommerce.order_lines`")
	assert.Contains(t, warehouse.queried, "CAST(category AS STRING) AS category")
}

func TestBigQueryRowConversion(t *testing.T) {
	row := bigQueryOrderRow{
		CustomerUniqueID: bigquery.NullString{StringVal: "8d50f5eadf50201ccdcedfb9e2ac8455", Valid: true},
		OrderID:          bigquery.NullString{StringVal: "o1", Valid: true},
		PaymentValue:     bigquery.NullString{StringVal: "22.5", Valid: true},
		PurchasedAt:      bigquery.NullString{StringVal: "2018-05-01 10:00:00+00", Valid: true},
	}

	record, err := builder{policy: NewCustomerKeyPolicy(5)}.build(1, row.raw())
	require.NoError(t, err)
	assert.Equal(t, "8d50f", record.CustomerID)
	assert.Nil(t, record.ReviewScore)
	assert.Equal(t, 10, record.PurchasedAt.Hour())
}
