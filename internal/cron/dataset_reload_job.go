package cron

import (
	"context"
	"errors"

	"github.com/angelmondragon/orderinsights/internal/dataset"
	"github.com/angelmondragon/orderinsights/pkg/logger"
)

const datasetReloadJobName = "dataset_reload"

type datasetReloader interface {
	Reload(ctx context.Context) (*dataset.Snapshot, error)
}

// DatasetReloadJob re-reads the configured source and swaps the served table.
type DatasetReloadJob struct {
	store datasetReloader
	logg  *logger.Logger
}

func NewDatasetReloadJob(store datasetReloader, logg *logger.Logger) (*DatasetReloadJob, error) {
	if store == nil {
		return nil, errors.New("dataset store required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &DatasetReloadJob{store: store, logg: logg}, nil
}

func (j *DatasetReloadJob) Name() string {
	return datasetReloadJobName
}

func (j *DatasetReloadJob) Run(ctx context.Context) error {
	snap, err := j.store.Reload(ctx)
	if err != nil {
		return err
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"rows":    snap.Rows,
		"skipped": snap.Skipped,
		"source":  snap.Source,
	}), "dataset reloaded")
	return nil
}
