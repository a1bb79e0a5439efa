package validators

import (
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/orderinsights/pkg/errors"
)

const dateOnlyLayout = "2006-01-02"

type rangeParams struct {
	From string `json:"from" validate:"required_with=To,omitempty,timestamp"`
	To   string `json:"to" validate:"required_with=From,omitempty,timestamp"`
}

// ParseRange reads the optional from/to query parameters. Both or neither
// must be given. A date-only "to" covers the whole day. Nil bounds mean
// "use the dataset's own range".
func ParseRange(r *http.Request) (*time.Time, *time.Time, error) {
	query := r.URL.Query()
	params := rangeParams{
		From: strings.TrimSpace(query.Get("from")),
		To:   strings.TrimSpace(query.Get("to")),
	}
	if err := ValidateStruct(params); err != nil {
		return nil, nil, err
	}
	if params.From == "" && params.To == "" {
		return nil, nil, nil
	}

	start, _, err := parseTimestamp(params.From)
	if err != nil {
		return nil, nil, err
	}
	end, dateOnly, err := parseTimestamp(params.To)
	if err != nil {
		return nil, nil, err
	}
	if dateOnly {
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if start.After(end) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "from must not be after to").
			WithDetails(map[string]any{"from": params.From, "to": params.To})
	}
	return &start, &end, nil
}

// parseTimestamp accepts RFC3339 or a bare date and reports whether only a
// date was given. Dataset timestamps are zone-naive, so an offset is dropped
// and the wall clock kept, the same way rows are loaded.
func parseTimestamp(value string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), false, nil
	}
	t, err := time.Parse(dateOnlyLayout, value)
	if err != nil {
		return time.Time{}, false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "timestamps must be RFC3339 or YYYY-MM-DD")
	}
	return t, true, nil
}
