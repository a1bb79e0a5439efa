package enums

import "fmt"

// DatasetSource names the backend the order table is loaded from.
type DatasetSource string

const (
	DatasetSourceCSV      DatasetSource = "csv"
	DatasetSourceDB       DatasetSource = "db"
	DatasetSourceBigQuery DatasetSource = "bigquery"
	DatasetSourceGCS      DatasetSource = "gcs"
)

var validDatasetSources = []DatasetSource{
	DatasetSourceCSV,
	DatasetSourceDB,
	DatasetSourceBigQuery,
	DatasetSourceGCS,
}

// String implements fmt.Stringer.
func (s DatasetSource) String() string {
	return string(s)
}

// IsValid reports whether the value is a known DatasetSource.
func (s DatasetSource) IsValid() bool {
	for _, candidate := range validDatasetSources {
		if candidate == s {
			return true
		}
	}
	return false
}

// UsesDB reports whether the source needs a SQL connection.
func (s DatasetSource) UsesDB() bool {
	return s == DatasetSourceDB
}

// UsesGCP reports whether the source needs Google Cloud credentials.
func (s DatasetSource) UsesGCP() bool {
	return s == DatasetSourceBigQuery || s == DatasetSourceGCS
}

// ParseDatasetSource converts raw input into a DatasetSource.
func ParseDatasetSource(value string) (DatasetSource, error) {
	for _, candidate := range validDatasetSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dataset source %q", value)
}
