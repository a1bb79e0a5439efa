package dataset

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/orderinsights/internal/analytics/engine"
	"github.com/angelmondragon/orderinsights/pkg/logger"
)

var timeNowUTC = func() time.Time { return time.Now().UTC() }

// Snapshot is one immutable generation of the order table.
type Snapshot struct {
	Table    *engine.Table
	Source   string
	LoadedAt time.Time
	Earliest time.Time
	Latest   time.Time
	Rows     int
	Skipped  int
}

// LoadRecorder observes dataset loads.
type LoadRecorder interface {
	ObserveLoad(source string, rows, skipped int, duration time.Duration, err error)
}

// StoreParams wires a Store.
type StoreParams struct {
	Source      Source
	Policy      CustomerKeyPolicy
	LoadTimeout time.Duration
	Metrics     LoadRecorder
	Logger      *logger.Logger
	Closers     []func() error
}

// Store owns the process-wide order table. Readers take a Snapshot and keep
// using it for the whole computation; Reload builds a new table and swaps the
// reference, so a reload never changes rows under an in-flight request.
type Store struct {
	source      Source
	policy      CustomerKeyPolicy
	loadTimeout time.Duration
	metrics     LoadRecorder
	logg        *logger.Logger
	closers     []func() error

	current atomic.Pointer[Snapshot]
	reload  sync.Mutex
	closed  atomic.Bool
}

func NewStore(params StoreParams) (*Store, error) {
	if params.Source == nil {
		return nil, fmt.Errorf("dataset source required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Store{
		source:      params.Source,
		policy:      NewCustomerKeyPolicy(params.Policy.Length),
		loadTimeout: params.LoadTimeout,
		metrics:     params.Metrics,
		logg:        params.Logger,
		closers:     params.Closers,
	}, nil
}

// Init performs the first load. It is an error to serve before Init succeeds.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.Reload(ctx)
	return err
}

// Reload loads the source again and publishes the result. Concurrent reloads
// are serialized; on failure the previous snapshot keeps serving.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	s.reload.Lock()
	defer s.reload.Unlock()

	if s.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.loadTimeout)
		defer cancel()
	}
	ctx = s.logg.WithDatasetSource(ctx, s.source.Name())

	started := time.Now()
	snap, err := s.load(ctx)
	elapsed := time.Since(started)
	if s.metrics != nil {
		rows, skipped := 0, 0
		if snap != nil {
			rows, skipped = snap.Rows, snap.Skipped
		}
		s.metrics.ObserveLoad(s.source.Name(), rows, skipped, elapsed, err)
	}
	if err != nil {
		s.logg.Error(ctx, "dataset load failed", err)
		return nil, err
	}
	if s.closed.Load() {
		return nil, ErrClosed
	}

	s.current.Store(snap)
	ctx = s.logg.WithFields(ctx, map[string]any{
		"rows":        snap.Rows,
		"skipped":     snap.Skipped,
		"duration_ms": elapsed.Milliseconds(),
	})
	s.logg.Info(ctx, "dataset loaded")
	return snap, nil
}

func (s *Store) load(ctx context.Context) (*Snapshot, error) {
	batch, err := s.source.Load(ctx, s.policy)
	if err != nil {
		return nil, err
	}
	if batch.Skipped > 0 {
		warnCtx := s.logg.WithFields(ctx, map[string]any{
			"skipped": batch.Skipped,
			"issues":  len(multierr.Errors(batch.Issues)),
		})
		if batch.Issues != nil {
			warnCtx = s.logg.WithField(warnCtx, "first_issues", batch.Issues.Error())
		}
		s.logg.Warn(warnCtx, "dataset rows skipped")
	}

	records := batch.Records
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].PurchasedAt.Before(records[j].PurchasedAt)
	})
	table := engine.NewTable(records)
	earliest, latest, _ := table.Bounds()

	return &Snapshot{
		Table:    table,
		Source:   s.source.Name(),
		LoadedAt: timeNowUTC(),
		Earliest: earliest,
		Latest:   latest,
		Rows:     table.Len(),
		Skipped:  batch.Skipped,
	}, nil
}

// Snapshot returns the table currently being served.
func (s *Store) Snapshot() (*Snapshot, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Ready reports whether a snapshot is available; used by readiness probes.
func (s *Store) Ready(context.Context) error {
	_, err := s.Snapshot()
	return err
}

// Close drops the current snapshot and releases the source's resources.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.reload.Lock()
	defer s.reload.Unlock()

	s.current.Store(nil)
	var err error
	for _, closeFn := range s.closers {
		err = multierr.Append(err, closeFn())
	}
	return err
}
