package refresh

import (
	"context"
	"errors"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/angelmondragon/orderinsights/internal/dataset"
	"github.com/angelmondragon/orderinsights/pkg/instance"
	"github.com/angelmondragon/orderinsights/pkg/logger"
)

const consumerPrefix = "dataset-refresh"

type receiver interface {
	Receive(ctx context.Context, f func(context.Context, *gcppubsub.Message)) error
}

// Reloader is the part of dataset.Store the consumer drives.
type Reloader interface {
	Snapshot() (*dataset.Snapshot, error)
	Reload(ctx context.Context) (*dataset.Snapshot, error)
}

type idempotencyChecker interface {
	CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
	Delete(ctx context.Context, consumer string, eventID uuid.UUID) error
}

// Service reloads the in-memory dataset whenever an upstream job announces
// that the orders table changed. Every process holds its own table, so the
// idempotency scope is per instance.
type Service struct {
	subscription receiver
	store        Reloader
	manager      idempotencyChecker
	consumer     string
	logg         *logger.Logger
}

// NewService creates a refresh consumer bound to subscription.
func NewService(subscription receiver, store Reloader, manager idempotencyChecker, logg *logger.Logger) (*Service, error) {
	if subscription == nil {
		return nil, errors.New("refresh subscription is required")
	}
	if store == nil {
		return nil, errors.New("dataset store is required")
	}
	if manager == nil {
		return nil, errors.New("idempotency manager is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Service{
		subscription: subscription,
		store:        store,
		manager:      manager,
		consumer:     consumerPrefix + ":" + instance.GetID(),
		logg:         logg,
	}, nil
}

type processResult struct {
	nack bool
}

// Run consumes refresh notifications until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if s.process(innerCtx, msg).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (s *Service) process(ctx context.Context, msg *gcppubsub.Message) processResult {
	fields := map[string]any{
		"message_id": msg.ID,
		"consumer":   s.consumer,
	}

	env, err := decodeEnvelope(msg)
	if err != nil {
		fields["error"] = err.Error()
		s.logg.Warn(s.logg.WithFields(ctx, fields), "refresh.invalid_envelope")
		return processResult{}
	}
	fields["event_id"] = env.EventID
	fields["event_type"] = env.EventType
	fields["occurred_at"] = env.OccurredAt.Format(time.RFC3339Nano)
	if env.Source != "" {
		fields["upstream"] = env.Source
	}
	logCtx := s.logg.WithFields(ctx, fields)

	eventID, err := uuid.Parse(env.EventID)
	if err != nil {
		s.logg.Warn(logCtx, "refresh.invalid_event_id")
		return processResult{}
	}

	if s.alreadyCovered(env) {
		s.logg.Info(logCtx, "refresh.already_covered")
		return processResult{}
	}

	already, err := s.manager.CheckAndMarkProcessed(logCtx, s.consumer, eventID)
	if err != nil {
		s.logg.Error(logCtx, "refresh.idempotency_failed", err)
		return processResult{nack: true}
	}
	if already {
		s.logg.Info(logCtx, "refresh.duplicate")
		return processResult{}
	}

	snap, err := s.store.Reload(logCtx)
	if err != nil {
		s.logg.Error(logCtx, "refresh.reload_failed", err)
		_ = s.manager.Delete(logCtx, s.consumer, eventID)
		return processResult{nack: true}
	}

	s.logg.Info(s.logg.WithFields(logCtx, map[string]any{
		"rows":    snap.Rows,
		"skipped": snap.Skipped,
	}), "refresh.applied")
	return processResult{}
}

// alreadyCovered reports whether the table being served was loaded after
// the upstream change happened.
func (s *Service) alreadyCovered(env *Envelope) bool {
	if env.OccurredAt.IsZero() {
		return false
	}
	snap, err := s.store.Snapshot()
	if err != nil || snap == nil {
		return false
	}
	return snap.LoadedAt.After(env.OccurredAt)
}
