package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/orderinsights/internal/analytics/engine"
)

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

var (
	errBlankValue       = errors.New("value is required")
	errNegativePayment  = errors.New("payment value must not be negative")
	errUnparseableValue = errors.New("unparseable value")
)

// rawRecord is one source row with every column still in text form.
type rawRecord struct {
	CustomerUniqueID string
	OrderID          string
	Category         string
	ReviewScore      string
	PaymentValue     string
	CustomerState    string
	PurchasedAt      string
	DeliveredAt      string
}

// builder turns raw rows into engine records under a customer key policy.
type builder struct {
	policy CustomerKeyPolicy
}

func (b builder) build(line int, raw rawRecord) (engine.OrderRecord, error) {
	uniqueID := strings.TrimSpace(raw.CustomerUniqueID)
	if uniqueID == "" {
		return engine.OrderRecord{}, &RowError{Line: line, Column: ColumnCustomerUniqueID, Err: errBlankValue}
	}
	orderID := strings.TrimSpace(raw.OrderID)
	if orderID == "" {
		return engine.OrderRecord{}, &RowError{Line: line, Column: ColumnOrderID, Err: errBlankValue}
	}

	purchasedAt, err := parseTimestamp(raw.PurchasedAt)
	if err != nil {
		return engine.OrderRecord{}, &RowError{Line: line, Column: ColumnPurchasedAt, Err: err}
	}
	if purchasedAt == nil {
		return engine.OrderRecord{}, &RowError{Line: line, Column: ColumnPurchasedAt, Err: errBlankValue}
	}

	deliveredAt, err := parseTimestamp(raw.DeliveredAt)
	if err != nil {
		return engine.OrderRecord{}, &RowError{Line: line, Column: ColumnDeliveredAt, Err: err}
	}

	score, err := parseScore(raw.ReviewScore)
	if err != nil {
		return engine.OrderRecord{}, &RowError{Line: line, Column: ColumnReviewScore, Err: err}
	}

	payment, err := parsePayment(raw.PaymentValue)
	if err != nil {
		return engine.OrderRecord{}, &RowError{Line: line, Column: ColumnPaymentValue, Err: err}
	}

	return engine.OrderRecord{
		CustomerID:       b.policy.Derive(uniqueID),
		CustomerUniqueID: uniqueID,
		OrderID:          orderID,
		CategoryLabel:    strings.TrimSpace(raw.Category),
		ReviewScore:      score,
		PaymentValue:     payment,
		CustomerState:    strings.TrimSpace(raw.CustomerState),
		PurchasedAt:      *purchasedAt,
		DeliveredAt:      deliveredAt,
	}, nil
}

// parseTimestamp reads a timezone-naive timestamp as a UTC wall clock. Blank
// values yield nil.
func parseTimestamp(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			wall := wallClock(t)
			return &wall, nil
		}
	}
	return nil, fmt.Errorf("%w: timestamp %q", errUnparseableValue, value)
}

func parseScore(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "nan") {
		return nil, nil
	}
	score, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: review score %q", errUnparseableValue, value)
	}
	return &score, nil
}

// parsePayment treats a missing value as zero.
func parsePayment(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "nan") {
		return decimal.Zero, nil
	}
	payment, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: payment value %q", errUnparseableValue, value)
	}
	if payment.IsNegative() {
		return decimal.Zero, errNegativePayment
	}
	return payment, nil
}
