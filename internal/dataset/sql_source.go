package dataset

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/orderinsights/internal/analytics/engine"
	"github.com/angelmondragon/orderinsights/pkg/db/models"
)

const sqlBatchSize = 5000

// SQLSource reads order lines from a relational table through GORM.
type SQLSource struct {
	db    *gorm.DB
	table string
}

func NewSQLSource(db *gorm.DB, table string) *SQLSource {
	table = strings.TrimSpace(table)
	if table == "" {
		table = models.OrderLine{}.TableName()
	}
	return &SQLSource{db: db, table: table}
}

func (s *SQLSource) Name() string {
	return "db"
}

func (s *SQLSource) Load(ctx context.Context, policy CustomerKeyPolicy) (*Batch, error) {
	if err := s.checkColumns(); err != nil {
		return nil, err
	}

	c := newCollector(policy)
	b := builder{policy: policy}
	var lines []models.OrderLine
	res := s.db.WithContext(ctx).
		Table(s.table).
		FindInBatches(&lines, sqlBatchSize, func(tx *gorm.DB, _ int) error {
			for _, line := range lines {
				record, err := b.fromModel(line)
				if err != nil {
					c.skip(err)
					continue
				}
				c.batch.Records = append(c.batch.Records, record)
			}
			return nil
		})
	if res.Error != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, res.Error)
	}
	return c.result(), nil
}

func (s *SQLSource) checkColumns() error {
	migrator := s.db.Migrator()
	if !migrator.HasTable(s.table) {
		return fmt.Errorf("table %q does not exist", s.table)
	}
	columns := map[string]string{
		ColumnCustomerUniqueID: "customer_unique_id",
		ColumnOrderID:          "order_id",
		ColumnCategory:         "product_category_name_english",
		ColumnReviewScore:      "review_score",
		ColumnPaymentValue:     "payment_value",
		ColumnCustomerState:    "customer_state",
		ColumnPurchasedAt:      "order_purchase_timestamp",
		ColumnDeliveredAt:      "order_delivered_customer_date",
	}
	var missing []string
	for _, logical := range RequiredColumns {
		if !migrator.HasColumn(s.table, columns[logical]) {
			missing = append(missing, logical)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnError{Columns: missing}
	}
	return nil
}

func (b builder) fromModel(line models.OrderLine) (engine.OrderRecord, error) {
	uniqueID := strings.TrimSpace(line.CustomerUniqueID)
	if uniqueID == "" {
		return engine.OrderRecord{}, &RowError{Line: int(line.ID), Column: ColumnCustomerUniqueID, Err: errBlankValue}
	}
	orderID := strings.TrimSpace(line.OrderID)
	if orderID == "" {
		return engine.OrderRecord{}, &RowError{Line: int(line.ID), Column: ColumnOrderID, Err: errBlankValue}
	}
	if line.OrderPurchaseTimestamp.IsZero() {
		return engine.OrderRecord{}, &RowError{Line: int(line.ID), Column: ColumnPurchasedAt, Err: errBlankValue}
	}

	payment := decimal.Zero
	if line.PaymentValue.Valid {
		payment = line.PaymentValue.Decimal
	}
	if payment.IsNegative() {
		return engine.OrderRecord{}, &RowError{Line: int(line.ID), Column: ColumnPaymentValue, Err: errNegativePayment}
	}

	record := engine.OrderRecord{
		CustomerID:       b.policy.Derive(uniqueID),
		CustomerUniqueID: uniqueID,
		OrderID:          orderID,
		ReviewScore:      line.ReviewScore,
		PaymentValue:     payment,
		PurchasedAt:      wallClock(line.OrderPurchaseTimestamp),
	}
	if line.ProductCategoryName != nil {
		record.CategoryLabel = strings.TrimSpace(*line.ProductCategoryName)
	}
	if line.CustomerState != nil {
		record.CustomerState = strings.TrimSpace(*line.CustomerState)
	}
	if line.OrderDeliveredCustomerDate != nil {
		delivered := wallClock(*line.OrderDeliveredCustomerDate)
		record.DeliveredAt = &delivered
	}
	return record, nil
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
