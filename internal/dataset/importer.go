package dataset

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/orderinsights/internal/analytics/engine"
	"github.com/angelmondragon/orderinsights/pkg/db/models"
)

const importBatchSize = 500

// TxRunner runs fn inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ImportOptions control how records land in the order_lines table.
type ImportOptions struct {
	// Replace empties the table before inserting.
	Replace   bool
	BatchSize int
}

// ImportOrderLines writes records into the order_lines table in a single
// transaction and returns the number of inserted rows.
func ImportOrderLines(ctx context.Context, runner TxRunner, records []engine.OrderRecord, opts ImportOptions) (int, error) {
	if runner == nil {
		return 0, errors.New("transaction runner required")
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = importBatchSize
	}

	lines := make([]models.OrderLine, 0, len(records))
	for _, record := range records {
		lines = append(lines, toModel(record))
	}

	err := runner.WithTx(ctx, func(tx *gorm.DB) error {
		if opts.Replace {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.OrderLine{}).Error; err != nil {
				return fmt.Errorf("clear order lines: %w", err)
			}
		}
		if len(lines) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(lines, batchSize).Error; err != nil {
			return fmt.Errorf("insert order lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(lines), nil
}

func toModel(record engine.OrderRecord) models.OrderLine {
	line := models.OrderLine{
		CustomerUniqueID:           record.CustomerUniqueID,
		OrderID:                    record.OrderID,
		ReviewScore:                record.ReviewScore,
		PaymentValue:               decimal.NullDecimal{Decimal: record.PaymentValue, Valid: true},
		OrderPurchaseTimestamp:     record.PurchasedAt,
		OrderDeliveredCustomerDate: record.DeliveredAt,
	}
	if record.CategoryLabel != "" {
		label := record.CategoryLabel
		line.ProductCategoryName = &label
	}
	if record.CustomerState != "" {
		state := record.CustomerState
		line.CustomerState = &state
	}
	return line
}
