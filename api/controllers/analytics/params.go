package analytics

import (
	"net/http"

	"github.com/angelmondragon/orderinsights/api/validators"
	"github.com/angelmondragon/orderinsights/internal/analytics/types"
)

const maxRankingLimit = 100

// parseInsightsQuery reads the shared range and the ranking sizes. Absent
// limits stay zero so the service applies its defaults.
func parseInsightsQuery(r *http.Request) (types.InsightsQuery, error) {
	from, to, err := validators.ParseRange(r)
	if err != nil {
		return types.InsightsQuery{}, err
	}
	q := types.InsightsQuery{From: from, To: to}

	if q.CategoryLimit, err = validators.ParseQueryInt(r, "limit", 0, 1, maxRankingLimit); err != nil {
		return types.InsightsQuery{}, err
	}
	if q.StateLimit, err = validators.ParseQueryInt(r, "k", 0, 1, maxRankingLimit); err != nil {
		return types.InsightsQuery{}, err
	}
	if q.RFMLimit, err = validators.ParseQueryInt(r, "rfm_limit", 0, 1, maxRankingLimit); err != nil {
		return types.InsightsQuery{}, err
	}
	return q, nil
}
