package metrics

// Namespace prefixes every metric the service exports.
const Namespace = "orderinsights"

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
