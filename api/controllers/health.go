package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/orderinsights/api/responses"
	"github.com/angelmondragon/orderinsights/pkg/config"
	pkgerrors "github.com/angelmondragon/orderinsights/pkg/errors"
	"github.com/angelmondragon/orderinsights/pkg/logger"
)

const readinessTimeout = 3 * time.Second

// Pinger is anything the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (fn PingFunc) Ping(ctx context.Context) error {
	return fn(ctx)
}

// Dependency is a named readiness check. A nil Pinger is skipped.
type Dependency struct {
	Name   string
	Pinger Pinger
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-OrderInsights-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the dataset is loaded and every
// configured dependency answers.
func HealthReady(cfg *config.Config, logg *logger.Logger, dataset Pinger, deps ...Dependency) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-OrderInsights-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		failures := map[string]string{}
		all := append([]Dependency{{Name: "dataset", Pinger: dataset}}, deps...)
		for _, dep := range all {
			if dep.Pinger == nil {
				continue
			}
			if err := dep.Pinger.Ping(ctx); err != nil {
				failures[dep.Name] = err.Error()
				continue
			}
			checks[dep.Name] = "ok"
		}

		if len(failures) > 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "not ready").WithDetails(failures))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
