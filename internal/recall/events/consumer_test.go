package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"guardian/internal/recall"
	dErrors "guardian/pkg/domain-errors"
)

type fakeService struct {
	calls []string
	err   error
}

func (s *fakeService) MarkNotificationsSent(_ context.Context, recallID, actor string) (*recall.Recall, error) {
	s.calls = append(s.calls, recallID+"/"+actor)
	if s.err != nil {
		return nil, s.err
	}
	return &recall.Recall{ID: recallID, Status: recall.StatusNotificationsSent}, nil
}

func newTestWorker(service RecallService) *NotificationsWorker {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewNotificationsWorker(nil, service, logger)
}

func TestNotificationsWorkerHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("marks notifications sent with the worker actor", func(t *testing.T) {
		service := &fakeService{}
		w := newTestWorker(service)

		w.handle(ctx, &kgo.Record{Topic: TopicRecallInitiated, Key: []byte("r1")})

		require.Len(t, service.calls, 1)
		assert.Equal(t, "r1/notifications-worker", service.calls[0])
	})

	t.Run("a conflict means the recall already advanced", func(t *testing.T) {
		service := &fakeService{err: dErrors.New(dErrors.CodeConflict, "invalid state transition from NOTIFICATIONS_SENT")}
		w := newTestWorker(service)

		// Must not panic or error out of the poll loop.
		w.handle(ctx, &kgo.Record{Topic: TopicRecallInitiated, Key: []byte("r1")})
		require.Len(t, service.calls, 1)
	})

	t.Run("records without keys are dropped", func(t *testing.T) {
		service := &fakeService{}
		w := newTestWorker(service)

		w.handle(ctx, &kgo.Record{Topic: TopicRecallInitiated})
		assert.Empty(t, service.calls)
	})
}

func TestPayloadShape(t *testing.T) {
	t.Run("distributor id omitted for recall-scoped events", func(t *testing.T) {
		raw, err := json.Marshal(Payload{RecallID: "r1"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"recallId": "r1"}`, string(raw))
	})

	t.Run("distributor id present for distributor-scoped events", func(t *testing.T) {
		raw, err := json.Marshal(Payload{RecallID: "r1", DistributorID: "D1"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"recallId": "r1", "distributorId": "D1"}`, string(raw))
	})
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), TopicRecallClosed, "r1", Payload{RecallID: "r1"}))
}
