package enums

import "fmt"

// ReportKind identifies one of the summary tables served to the report UI.
type ReportKind string

const (
	ReportKindCategoryReviews ReportKind = "category_reviews"
	ReportKindCategoryRevenue ReportKind = "category_revenue"
	ReportKindStateOrders     ReportKind = "state_orders"
	ReportKindRFM             ReportKind = "rfm"
	ReportKindFull            ReportKind = "full"
)

var validReportKinds = []ReportKind{
	ReportKindCategoryReviews,
	ReportKindCategoryRevenue,
	ReportKindStateOrders,
	ReportKindRFM,
	ReportKindFull,
}

// String implements fmt.Stringer.
func (k ReportKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known ReportKind.
func (k ReportKind) IsValid() bool {
	for _, candidate := range validReportKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseReportKind converts raw input into a ReportKind.
func ParseReportKind(value string) (ReportKind, error) {
	for _, candidate := range validReportKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid report kind %q", value)
}
