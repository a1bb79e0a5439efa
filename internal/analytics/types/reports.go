package types

import "github.com/angelmondragon/orderinsights/internal/analytics/engine"

type CategoryReviews struct {
	Categories []engine.CategoryReview `json:"categories"`
	Best       []engine.CategoryReview `json:"best"`
	Worst      []engine.CategoryReview `json:"worst"`
}

type CategoryRevenues struct {
	Categories []engine.CategoryRevenue `json:"categories"`
	Highest    []engine.CategoryRevenue `json:"highest"`
	Lowest     []engine.CategoryRevenue `json:"lowest"`
}

type StateOrders struct {
	States []engine.StateOrders `json:"states"`
}

type RFMReport struct {
	AnchorDate engine.CalendarDate `json:"anchor_date"`
	Customers  []engine.RFMRow     `json:"customers"`
	Summary    engine.RFMSummary   `json:"summary"`
	Ranking    engine.RFMRanking   `json:"ranking"`
}

// FullReport bundles every summary table of the dashboard.
type FullReport struct {
	Reviews CategoryReviews  `json:"category_reviews"`
	Revenue CategoryRevenues `json:"category_revenue"`
	States  StateOrders      `json:"state_orders"`
	RFM     RFMReport        `json:"rfm"`
}
