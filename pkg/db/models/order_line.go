package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is one row of the order_lines table, laid out like the flat
// marketplace export the CSV source reads.
type OrderLine struct {
	ID                         int64               `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerUniqueID           string              `gorm:"column:customer_unique_id;not null"`
	OrderID                    string              `gorm:"column:order_id;not null"`
	ProductCategoryName        *string             `gorm:"column:product_category_name_english"`
	ReviewScore                *float64            `gorm:"column:review_score"`
	PaymentValue               decimal.NullDecimal `gorm:"column:payment_value;type:numeric(12,2)"`
	CustomerState              *string             `gorm:"column:customer_state"`
	OrderPurchaseTimestamp     time.Time           `gorm:"column:order_purchase_timestamp;not null"`
	OrderDeliveredCustomerDate *time.Time          `gorm:"column:order_delivered_customer_date"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}
