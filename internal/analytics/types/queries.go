package types

import (
	"time"

	"github.com/angelmondragon/orderinsights/internal/analytics/engine"
)

// InsightsQuery carries the caller's range and ranking sizes. A nil bound
// defaults to the matching bound of the loaded dataset; a zero limit
// defaults to the engine ranking size.
type InsightsQuery struct {
	From          *time.Time
	To            *time.Time
	CategoryLimit int
	StateLimit    int
	RFMLimit      int
}

// DatasetRange describes the loaded dataset, which is also the default
// window a date picker should offer.
type DatasetRange struct {
	Earliest     time.Time           `json:"earliest"`
	Latest       time.Time           `json:"latest"`
	EarliestDate engine.CalendarDate `json:"earliest_date"`
	LatestDate   engine.CalendarDate `json:"latest_date"`
	Rows         int                 `json:"rows"`
	SkippedRows  int                 `json:"skipped_rows"`
	Source       string              `json:"source"`
	LoadedAt     time.Time           `json:"loaded_at"`
}

// AppliedRange is the window a report was computed over.
type AppliedRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	Rows int       `json:"rows"`
}

// Windowed pairs a report with the range it was computed for.
type Windowed[T any] struct {
	Range  AppliedRange `json:"range"`
	Report T            `json:"report"`
}
