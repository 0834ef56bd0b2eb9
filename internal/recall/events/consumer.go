package events

import (
	"context"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"guardian/internal/recall"
	dErrors "guardian/pkg/domain-errors"
)

const (
	notificationsGroup = "guardian-recall-workers"
	notificationsActor = "notifications-worker"
)

// RecallService is the slice of the lifecycle service the worker needs.
type RecallService interface {
	MarkNotificationsSent(ctx context.Context, recallID, actor string) (*recall.Recall, error)
}

// NotificationsWorker consumes recall-initiated events and, after the
// (simulated) notification dispatch, marks the recall's notifications as
// sent. Records are handled once: conflict and not-found outcomes mean
// another path already advanced or removed the recall, so they are logged
// and the record is considered done.
type NotificationsWorker struct {
	client  *kgo.Client
	service RecallService
	logger  *slog.Logger
}

func NewNotificationsWorker(client *kgo.Client, service RecallService, logger *slog.Logger) *NotificationsWorker {
	return &NotificationsWorker{client: client, service: service, logger: logger}
}

// Run polls until the context is cancelled or the client is closed.
func (w *NotificationsWorker) Run(ctx context.Context) error {
	for {
		fetches := w.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			w.logger.Error("fetch error", "topic", topic, "partition", partition, "error", err)
		})
		fetches.EachRecord(func(record *kgo.Record) {
			w.handle(ctx, record)
		})
	}
}

func (w *NotificationsWorker) handle(ctx context.Context, record *kgo.Record) {
	recallID := string(record.Key)
	if recallID == "" {
		w.logger.Warn("dropping record without key", "topic", record.Topic)
		return
	}

	_, err := w.service.MarkNotificationsSent(ctx, recallID, notificationsActor)
	switch {
	case err == nil:
		w.logger.Info("notifications marked sent", "recall_id", recallID)
	case dErrors.HasCode(err, dErrors.CodeConflict), dErrors.HasCode(err, dErrors.CodeNotFound):
		// Already advanced (or gone); the event is stale, not retryable.
		w.logger.Info("skipping recall-initiated event", "recall_id", recallID, "reason", err.Error())
	default:
		w.logger.Error("mark notifications sent failed", "recall_id", recallID, "error", err)
	}
}
