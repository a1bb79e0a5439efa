package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/angelmondragon/orderinsights/api/responses"
	"github.com/angelmondragon/orderinsights/api/validators"
	"github.com/angelmondragon/orderinsights/internal/dataset"
	pkgerrors "github.com/angelmondragon/orderinsights/pkg/errors"
	"github.com/angelmondragon/orderinsights/pkg/logger"
)

const maxReasonLength = 200

type datasetReloader interface {
	Reload(ctx context.Context) (*dataset.Snapshot, error)
}

type reloadRequest struct {
	Reason string `json:"reason" validate:"max=200"`
}

type reloadResponse struct {
	Source   string    `json:"source"`
	Rows     int       `json:"rows"`
	Skipped  int       `json:"skipped_rows"`
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
	LoadedAt time.Time `json:"loaded_at"`
}

// DatasetReload re-reads the configured source and starts serving the new
// table. The request body is optional.
func DatasetReload(store datasetReloader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req reloadRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}
		if reason := validators.SanitizeString(req.Reason, maxReasonLength); reason != "" && logg != nil {
			ctx = logg.WithField(ctx, "reason", reason)
		}

		snap, err := store.Reload(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, reloadError(err))
			return
		}

		if logg != nil {
			logg.Info(logg.WithFields(ctx, map[string]any{
				"rows":    snap.Rows,
				"skipped": snap.Skipped,
			}), "dataset.reloaded")
		}
		responses.WriteSuccess(w, reloadResponse{
			Source:   snap.Source,
			Rows:     snap.Rows,
			Skipped:  snap.Skipped,
			Earliest: snap.Earliest,
			Latest:   snap.Latest,
			LoadedAt: snap.LoadedAt,
		})
	}
}

func reloadError(err error) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	var missing *dataset.MissingColumnError
	if errors.As(err, &missing) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dataset reload failed").
			WithDetails(map[string]any{"missing_columns": missing.Columns})
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dataset reload failed")
}
