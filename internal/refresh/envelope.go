package refresh

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/angelmondragon/orderinsights/pkg/enums"
)

// Envelope is a decoded "dataset refreshed" notification. Source names the
// upstream job that rewrote the orders table and is informational only.
type Envelope struct {
	EventID    string                 `json:"event_id"`
	EventType  enums.DatasetEventType `json:"event_type"`
	Source     string                 `json:"source,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func decodeEnvelope(msg *gcppubsub.Message) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		return nil, fmt.Errorf("decode refresh envelope: %w", err)
	}

	eventType := strings.TrimSpace(msg.Attributes["event_type"])
	if eventType == "" {
		eventType = strings.TrimSpace(string(env.EventType))
	}
	parsed, err := enums.ParseDatasetEventType(eventType)
	if err != nil {
		return nil, fmt.Errorf("event_type: %w", err)
	}
	env.EventType = parsed

	env.EventID = strings.TrimSpace(env.EventID)
	if env.EventID == "" {
		env.EventID = strings.TrimSpace(msg.Attributes["event_id"])
	}
	if env.EventID == "" {
		return nil, errors.New("event_id missing")
	}

	if env.OccurredAt.IsZero() && !msg.PublishTime.IsZero() {
		env.OccurredAt = msg.PublishTime
	}
	env.OccurredAt = env.OccurredAt.UTC()
	return &env, nil
}
