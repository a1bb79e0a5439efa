package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/orderinsights/internal/dataset"
	"github.com/angelmondragon/orderinsights/pkg/enums"
	"github.com/angelmondragon/orderinsights/pkg/logger"
)

func TestDecodeEnvelopeUsesAttributes(t *testing.T) {
	occurred := time.Date(2018, 9, 1, 3, 0, 0, 0, time.UTC)
	msg := buildMessage(t, Envelope{EventID: "evt-1", OccurredAt: occurred, Source: "nightly-etl"}, map[string]string{
		"event_type": "dataset_refreshed",
	})

	env, err := decodeEnvelope(msg)
	require.NoError(t, err)
	assert.Equal(t, enums.DatasetEventRefreshed, env.EventType)
	assert.Equal(t, "evt-1", env.EventID)
	assert.Equal(t, "nightly-etl", env.Source)
	assert.Equal(t, occurred, env.OccurredAt)
}

func TestDecodeEnvelopeFallsBack(t *testing.T) {
	published := time.Date(2018, 9, 2, 0, 0, 0, 0, time.UTC)
	msg := &gcppubsub.Message{
		Data:        []byte(`{"event_type":"dataset_refreshed"}`),
		Attributes:  map[string]string{"event_id": "evt-attr"},
		PublishTime: published,
	}

	env, err := decodeEnvelope(msg)
	require.NoError(t, err)
	assert.Equal(t, "evt-attr", env.EventID)
	assert.Equal(t, published, env.OccurredAt)
}

func TestDecodeEnvelopeRejects(t *testing.T) {
	cases := map[string]*gcppubsub.Message{
		"bad json":   {Data: []byte("nope")},
		"bad type":   {Data: []byte(`{"event_id":"x"}`), Attributes: map[string]string{"event_type": "order_created"}},
		"missing id": {Data: []byte(`{}`), Attributes: map[string]string{"event_type": "dataset_refreshed"}},
	}
	for name, msg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decodeEnvelope(msg)
			assert.Error(t, err)
		})
	}
}

func TestProcessReloadsOnFreshEvent(t *testing.T) {
	store := &stubStore{loadedAt: time.Date(2018, 9, 1, 0, 0, 0, 0, time.UTC)}
	manager := &stubManager{}
	svc := newTestService(store, manager)

	res := svc.process(context.Background(), refreshMessage(t, time.Date(2018, 9, 1, 6, 0, 0, 0, time.UTC)))
	assert.False(t, res.nack)
	assert.Equal(t, 1, store.reloads)
	assert.Len(t, manager.checked, 1)
	assert.Equal(t, "dataset-refresh:test-instance", manager.consumer)
}

func TestProcessSkipsEventsOlderThanSnapshot(t *testing.T) {
	store := &stubStore{loadedAt: time.Date(2018, 9, 2, 0, 0, 0, 0, time.UTC)}
	manager := &stubManager{}
	svc := newTestService(store, manager)

	res := svc.process(context.Background(), refreshMessage(t, time.Date(2018, 9, 1, 6, 0, 0, 0, time.UTC)))
	assert.False(t, res.nack)
	assert.Zero(t, store.reloads)
	assert.Empty(t, manager.checked)
}

func TestProcessDuplicateIsAcked(t *testing.T) {
	store := &stubStore{}
	manager := &stubManager{checkResult: true}
	svc := newTestService(store, manager)

	res := svc.process(context.Background(), refreshMessage(t, time.Now().UTC()))
	assert.False(t, res.nack)
	assert.Zero(t, store.reloads)
}

func TestProcessReloadFailureNacksAndReleases(t *testing.T) {
	store := &stubStore{err: errors.New("warehouse unavailable")}
	manager := &stubManager{}
	svc := newTestService(store, manager)

	res := svc.process(context.Background(), refreshMessage(t, time.Now().UTC()))
	assert.True(t, res.nack)
	assert.Len(t, manager.deleted, 1)
}

func TestProcessIdempotencyFailureNacks(t *testing.T) {
	store := &stubStore{}
	manager := &stubManager{checkErr: errors.New("redis down")}
	svc := newTestService(store, manager)

	res := svc.process(context.Background(), refreshMessage(t, time.Now().UTC()))
	assert.True(t, res.nack)
	assert.Zero(t, store.reloads)
}

func TestProcessInvalidMessagesAreAcked(t *testing.T) {
	store := &stubStore{}
	manager := &stubManager{}
	svc := newTestService(store, manager)

	res := svc.process(context.Background(), &gcppubsub.Message{Data: []byte("invalid json")})
	assert.False(t, res.nack)

	res = svc.process(context.Background(), buildMessage(t, Envelope{EventID: "not-a-uuid"}, map[string]string{"event_type": "dataset_refreshed"}))
	assert.False(t, res.nack)
	assert.Zero(t, store.reloads)
	assert.Empty(t, manager.checked)
}

func TestNewServiceValidates(t *testing.T) {
	_, err := NewService(nil, &stubStore{}, &stubManager{}, logger.Nop())
	assert.Error(t, err)
	_, err = NewService(&stubReceiver{}, nil, &stubManager{}, logger.Nop())
	assert.Error(t, err)
	_, err = NewService(&stubReceiver{}, &stubStore{}, nil, logger.Nop())
	assert.Error(t, err)

	t.Setenv("WORKER_ID", "api-7")
	svc, err := NewService(&stubReceiver{}, &stubStore{}, &stubManager{}, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "dataset-refresh:api-7", svc.consumer)
}

func refreshMessage(t *testing.T, occurred time.Time) *gcppubsub.Message {
	return buildMessage(t, Envelope{EventID: uuid.NewString(), OccurredAt: occurred}, map[string]string{
		"event_type": "dataset_refreshed",
	})
}

func buildMessage(t *testing.T, env Envelope, attrs map[string]string) *gcppubsub.Message {
	t.Helper()
	data, err := json.Marshal(env)
	require.NoError(t, err)
	return &gcppubsub.Message{ID: "msg-1", Data: data, Attributes: attrs}
}

func newTestService(store *stubStore, manager *stubManager) *Service {
	return &Service{
		subscription: &stubReceiver{},
		store:        store,
		manager:      manager,
		consumer:     "dataset-refresh:test-instance",
		logg:         logger.Nop(),
	}
}

type stubReceiver struct{}

func (stubReceiver) Receive(context.Context, func(context.Context, *gcppubsub.Message)) error {
	return nil
}

type stubStore struct {
	loadedAt time.Time
	reloads  int
	err      error
}

func (s *stubStore) Snapshot() (*dataset.Snapshot, error) {
	if s.loadedAt.IsZero() {
		return nil, dataset.ErrNotLoaded
	}
	return &dataset.Snapshot{LoadedAt: s.loadedAt}, nil
}

func (s *stubStore) Reload(context.Context) (*dataset.Snapshot, error) {
	s.reloads++
	if s.err != nil {
		return nil, s.err
	}
	return &dataset.Snapshot{Rows: 5, LoadedAt: time.Now().UTC()}, nil
}

type stubManager struct {
	checkResult bool
	checkErr    error
	consumer    string
	checked     []uuid.UUID
	deleted     []uuid.UUID
}

func (s *stubManager) CheckAndMarkProcessed(_ context.Context, consumer string, eventID uuid.UUID) (bool, error) {
	s.consumer = consumer
	s.checked = append(s.checked, eventID)
	return s.checkResult, s.checkErr
}

func (s *stubManager) Delete(_ context.Context, _ string, eventID uuid.UUID) error {
	s.deleted = append(s.deleted, eventID)
	return nil
}
