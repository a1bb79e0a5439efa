package enums

import "fmt"

// DatasetEventType is the event_type attribute on dataset notifications.
type DatasetEventType string

const (
	DatasetEventRefreshed DatasetEventType = "dataset_refreshed"
)

var validDatasetEventTypes = []DatasetEventType{
	DatasetEventRefreshed,
}

// IsValid reports whether the value is a known DatasetEventType.
func (e DatasetEventType) IsValid() bool {
	for _, candidate := range validDatasetEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseDatasetEventType converts raw input into a DatasetEventType.
func ParseDatasetEventType(value string) (DatasetEventType, error) {
	for _, candidate := range validDatasetEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dataset event type %q", value)
}
