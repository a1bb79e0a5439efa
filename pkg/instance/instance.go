package instance

import "github.com/angelmondragon/orderinsights/pkg/env"

// GetID returns the process instance identifier used in logs and consumer names.
func GetID() string {
	return env.FirstOf("local", "WORKER_ID", "DYNO", "HOSTNAME")
}
