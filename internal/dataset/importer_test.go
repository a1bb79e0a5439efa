package dataset

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/orderinsights/internal/analytics/engine"
	"github.com/angelmondragon/orderinsights/pkg/db"
	"github.com/angelmondragon/orderinsights/pkg/db/models"
)

func TestImportOrderLinesRoundTripsThroughSQLSource(t *testing.T) {
	conn := newSQLiteDB(t)
	require.NoError(t, conn.AutoMigrate(&models.OrderLine{}))

	f, err := os.Open("testdata/orders.csv")
	require.NoError(t, err)
	defer f.Close()

	policy := NewCustomerKeyPolicy(5)
	batch, err := ReadCSV(context.Background(), f, policy)
	require.NoError(t, err)
	require.NotEmpty(t, batch.Records)

	inserted, err := ImportOrderLines(context.Background(), db.NewFromGorm(conn), batch.Records, ImportOptions{BatchSize: 2})
	require.NoError(t, err)
	assert.Equal(t, len(batch.Records), inserted)

	loaded, err := NewSQLSource(conn, "").Load(context.Background(), policy)
	require.NoError(t, err)
	require.Len(t, loaded.Records, len(batch.Records))
	assert.Zero(t, loaded.Skipped)

	first := batch.Records[0]
	assert.Equal(t, first.CustomerID, loaded.Records[0].CustomerID)
	assert.Equal(t, first.OrderID, loaded.Records[0].OrderID)
	assert.True(t, first.PaymentValue.Equal(loaded.Records[0].PaymentValue))
	assert.True(t, first.PurchasedAt.Equal(loaded.Records[0].PurchasedAt))
}

func TestImportOrderLinesReplaceClearsTable(t *testing.T) {
	conn := newSQLiteDB(t)
	require.NoError(t, conn.AutoMigrate(&models.OrderLine{}))
	client := db.NewFromGorm(conn)

	records := sampleRecords()
	_, err := ImportOrderLines(context.Background(), client, records, ImportOptions{})
	require.NoError(t, err)
	_, err = ImportOrderLines(context.Background(), client, records[:1], ImportOptions{Replace: true})
	require.NoError(t, err)

	var count int64
	require.NoError(t, conn.Model(&models.OrderLine{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestImportOrderLinesRequiresRunner(t *testing.T) {
	_, err := ImportOrderLines(context.Background(), nil, nil, ImportOptions{})
	require.Error(t, err)
}

func sampleRecords() []engine.OrderRecord {
	return []engine.OrderRecord{
		{
			CustomerID:       "861ef",
			CustomerUniqueID: "861eff4711a542e4b93843c6dd7febb0",
			OrderID:          "e481f51cbdc54678b7cc49136f2d6af7",
			CategoryLabel:    "housewares",
			PaymentValue:     decimal.RequireFromString("18.12"),
			CustomerState:    "SP",
			PurchasedAt:      time.Date(2017, time.October, 2, 10, 56, 33, 0, time.UTC),
		},
		{
			CustomerID:       "af073",
			CustomerUniqueID: "af07308b275d755c9edb36a90c618231",
			OrderID:          "53cdb2fc8bc7dce0b6741e2150273451",
			PaymentValue:     decimal.RequireFromString("141.46"),
			PurchasedAt:      time.Date(2018, time.July, 24, 20, 41, 37, 0, time.UTC),
		},
	}
}
