package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// CSVSource reads the flat marketplace export from a delimited file.
type CSVSource struct {
	path string
	open func(path string) (io.ReadCloser, error)
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{
		path: path,
		open: func(path string) (io.ReadCloser, error) { return os.Open(path) },
	}
}

func (s *CSVSource) Name() string {
	return "csv"
}

func (s *CSVSource) Load(ctx context.Context, policy CustomerKeyPolicy) (*Batch, error) {
	f, err := s.open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %q: %w", s.path, err)
	}
	defer f.Close()

	return ReadCSV(ctx, f, policy)
}

// ReadCSV parses a header row followed by order lines. Malformed rows are
// skipped and reported on the batch; a missing required column fails the
// whole load.
func ReadCSV(ctx context.Context, r io.Reader, policy CustomerKeyPolicy) (*Batch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &MissingColumnError{Columns: append([]string(nil), RequiredColumns...)}
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index, err := resolveHeader(header)
	if err != nil {
		return nil, err
	}

	c := newCollector(policy)
	for line := 2; ; line++ {
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				c.skip(&RowError{Line: line, Err: err})
				continue
			}
			return nil, fmt.Errorf("read csv row %d: %w", line, err)
		}
		c.add(line, rawRecord{
			CustomerUniqueID: field(row, index, ColumnCustomerUniqueID),
			OrderID:          field(row, index, ColumnOrderID),
			Category:         field(row, index, ColumnCategory),
			ReviewScore:      field(row, index, ColumnReviewScore),
			PaymentValue:     field(row, index, ColumnPaymentValue),
			CustomerState:    field(row, index, ColumnCustomerState),
			PurchasedAt:      field(row, index, ColumnPurchasedAt),
			DeliveredAt:      field(row, index, ColumnDeliveredAt),
		})
	}
	return c.result(), nil
}

func field(row []string, index map[string]int, column string) string {
	i, ok := index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
