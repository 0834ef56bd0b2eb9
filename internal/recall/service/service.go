// Package service orchestrates the recall lifecycle: it validates commands
// against the aggregate's current state, applies ledger and audit mutations,
// persists the result, and announces the completed transition.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"guardian/internal/platform/metrics"
	"guardian/internal/recall"
	"guardian/internal/recall/events"
	dErrors "guardian/pkg/domain-errors"
	"guardian/pkg/platform/sentinel"
	"guardian/pkg/requestcontext"
)

// ListPageSize bounds List to the most recently created recalls.
const ListPageSize = 100

// casRetries bounds how many times a command is replayed when its
// read-modify-write loses the version race to a concurrent writer.
const casRetries = 3

// Store persists recall aggregates. Update is a compare-and-swap on the
// aggregate version: it returns sentinel.ErrVersionConflict when the stored
// version no longer matches, and increments the version on success.
type Store interface {
	Create(ctx context.Context, r *recall.Recall) error
	Get(ctx context.Context, recallID string) (*recall.Recall, error)
	Update(ctx context.Context, r *recall.Recall) error
	List(ctx context.Context, limit int) ([]*recall.Recall, error)
}

// Publisher announces a completed transition. Implementations are invoked
// only after the state change is durably persisted.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload events.Payload) error
}

// Service is the recall lifecycle state machine.
type Service struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func New(store Store, publisher Publisher, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: store, publisher: publisher, logger: logger, metrics: m}
}

// ObligationInput describes one distributor's obligation at initiation time.
type ObligationInput struct {
	DistributorID       string
	DistributorName     string
	ContactEmail        string
	QuantityDistributed int64
}

// Initiate creates a recall in one atomic step with all obligations
// attached, then announces it.
func (s *Service) Initiate(ctx context.Context, productName, batchID, reason, initiatedBy string, distributors []ObligationInput) (*recall.Recall, error) {
	if len(distributors) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "distributors must not be empty")
	}
	for _, d := range distributors {
		if d.QuantityDistributed < 0 {
			return nil, dErrors.Newf(dErrors.CodeBadRequest, "quantityDistributed must be non-negative for distributor %s", d.DistributorID)
		}
	}

	recallID, err := uuid.NewV7()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "generate recall id")
	}

	now := requestcontext.Now(ctx)
	obligations := make([]recall.Obligation, len(distributors))
	for i, d := range distributors {
		obligations[i] = recall.Obligation{
			DistributorID:       d.DistributorID,
			DistributorName:     d.DistributorName,
			ContactEmail:        d.ContactEmail,
			QuantityDistributed: d.QuantityDistributed,
			QuantityReturned:    0,
			Status:              recall.ObligationPending,
		}
	}

	r := &recall.Recall{
		ID:                       recallID.String(),
		ProductName:              productName,
		BatchID:                  batchID,
		Reason:                   reason,
		InitiatedBy:              initiatedBy,
		InitiatedAt:              now,
		Status:                   recall.StatusInitiated,
		Distributors:             obligations,
		TotalQuantityDistributed: recall.TotalDistributed(obligations),
		TotalQuantityReturned:    0,
	}
	r.Record(now, initiatedBy, recall.ActionInitiateRecall, map[string]any{"recallId": r.ID})

	if err := s.store.Create(ctx, r); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create recall")
	}

	s.metrics.RecallInitiated()
	s.metrics.TransitionApplied(recall.ActionInitiateRecall)
	s.publish(ctx, events.TopicRecallInitiated, r.ID, events.Payload{RecallID: r.ID})
	return r, nil
}

// MarkNotificationsSent advances RECALL_INITIATED to NOTIFICATIONS_SENT.
func (s *Service) MarkNotificationsSent(ctx context.Context, recallID, actor string) (*recall.Recall, error) {
	return s.apply(ctx, recallID, recall.ActionSendNotifications, func(r *recall.Recall) (string, events.Payload, error) {
		next, err := recall.Next(r.Status, recall.CommandSendNotifications)
		if err != nil {
			return "", events.Payload{}, err
		}
		r.Status = next
		r.Record(requestcontext.Now(ctx), actor, recall.ActionSendNotifications, nil)
		return events.TopicNotificationsSent, events.Payload{RecallID: r.ID}, nil
	})
}

// AcknowledgeDistributor records one distributor's acknowledgment. When the
// last pending obligation settles, the recall auto-advances to
// RETURNS_IN_PROGRESS with a system-attributed audit entry, and the advance
// is announced instead of the individual acknowledgment.
func (s *Service) AcknowledgeDistributor(ctx context.Context, recallID, distributorID, actor string) (*recall.Recall, error) {
	return s.apply(ctx, recallID, recall.ActionAcknowledge, func(r *recall.Recall) (string, events.Payload, error) {
		obligation := r.Obligation(distributorID)
		if obligation == nil {
			return "", events.Payload{}, dErrors.New(dErrors.CodeNotFound, "distributor not part of recall")
		}
		if obligation.Status != recall.ObligationPending {
			return "", events.Payload{}, dErrors.Newf(dErrors.CodeConflict, "distributor already %s", obligation.Status)
		}

		now := requestcontext.Now(ctx)
		obligation.Status = recall.ObligationAcknowledged
		acknowledged := now
		obligation.AcknowledgmentAt = &acknowledged
		r.Record(now, actor, recall.ActionAcknowledge, map[string]any{"distributorId": distributorID})

		if recall.AllSettled(r.Distributors) {
			next, err := recall.Next(r.Status, recall.CommandAllAcknowledged)
			if err != nil {
				return "", events.Payload{}, err
			}
			if next != r.Status {
				r.Status = next
				r.Record(now, recall.SystemActor, recall.ActionAllAcknowledged, nil)
				return events.TopicReturnsInProgress, events.Payload{RecallID: r.ID}, nil
			}
		}
		return events.TopicDistributorAcknowledged, events.Payload{RecallID: r.ID, DistributorID: distributorID}, nil
	})
}

// UpdateReturns additively records returned units for one distributor,
// clamped at its distributed quantity, and recomputes the recall total. It
// neither requires prior acknowledgment nor changes the recall status.
func (s *Service) UpdateReturns(ctx context.Context, recallID, distributorID string, quantityReturned int64, actor string) (*recall.Recall, error) {
	if quantityReturned < 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "quantityReturned must be non-negative")
	}
	return s.apply(ctx, recallID, recall.ActionUpdateReturn, func(r *recall.Recall) (string, events.Payload, error) {
		obligation := r.Obligation(distributorID)
		if obligation == nil {
			return "", events.Payload{}, dErrors.New(dErrors.CodeNotFound, "distributor not part of recall")
		}

		now := requestcontext.Now(ctx)
		obligation.AddReturns(quantityReturned, now)
		r.RecomputeReturns()
		r.Record(now, actor, recall.ActionUpdateReturn, map[string]any{
			"distributorId":    distributorID,
			"quantityReturned": quantityReturned,
		})
		return events.TopicReturnsUpdated, events.Payload{RecallID: r.ID, DistributorID: distributorID}, nil
	})
}

// TryClose closes the recall once aggregate quantities reconcile. The guard
// is on quantities alone, independent of the current status, so a close is
// reachable even when earlier transitions were skipped — and a repeated
// close succeeds again, appending another audit entry.
func (s *Service) TryClose(ctx context.Context, recallID, actor string) (*recall.Recall, error) {
	return s.apply(ctx, recallID, recall.ActionCloseRecall, func(r *recall.Recall) (string, events.Payload, error) {
		if !r.ReturnsComplete() {
			return "", events.Payload{}, dErrors.New(dErrors.CodeConflict, "cannot close: returns not complete")
		}
		next, err := recall.Next(r.Status, recall.CommandClose)
		if err != nil {
			return "", events.Payload{}, err
		}
		r.Status = next
		r.Record(requestcontext.Now(ctx), actor, recall.ActionCloseRecall, nil)
		return events.TopicRecallClosed, events.Payload{RecallID: r.ID}, nil
	})
}

// Get returns the recall, or nil when it does not exist. Absence is a
// normal outcome, not an error.
func (s *Service) Get(ctx context.Context, recallID string) (*recall.Recall, error) {
	r, err := s.store.Get(ctx, recallID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "get recall")
	}
	return r, nil
}

// List returns the most recently created recalls, newest first.
func (s *Service) List(ctx context.Context) ([]*recall.Recall, error) {
	recalls, err := s.store.List(ctx, ListPageSize)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list recalls")
	}
	return recalls, nil
}

// apply runs one read-modify-write command against a stored aggregate. The
// write is a compare-and-swap; on a version conflict the whole command is
// replayed against a fresh read, so an intervening mutation is never
// silently discarded. The transition event is published only after the
// store write has returned.
func (s *Service) apply(ctx context.Context, recallID, action string, mutate func(r *recall.Recall) (string, events.Payload, error)) (*recall.Recall, error) {
	for attempt := 0; attempt < casRetries; attempt++ {
		r, err := s.store.Get(ctx, recallID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeNotFound, "recall not found")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "get recall")
		}

		topic, payload, err := mutate(r)
		if err != nil {
			return nil, err
		}

		if err := s.store.Update(ctx, r); err != nil {
			if errors.Is(err, sentinel.ErrVersionConflict) {
				s.logger.Debug("version conflict, replaying command", "recall_id", recallID, "action", action, "attempt", attempt+1)
				continue
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "update recall")
		}

		s.metrics.TransitionApplied(action)
		s.publish(ctx, topic, r.ID, payload)
		return r, nil
	}
	return nil, dErrors.New(dErrors.CodeConflict, "concurrent updates exhausted retries")
}

// publish is fire-and-forget: failures are logged and counted, never
// surfaced, because the persisted state change is the source of truth.
func (s *Service) publish(ctx context.Context, topic, key string, payload events.Payload) {
	if err := s.publisher.Publish(ctx, topic, key, payload); err != nil {
		s.metrics.EventFailed(topic)
		s.logger.Warn("event publish failed", "topic", topic, "recall_id", key, "error", err)
		return
	}
	s.metrics.EventPublished(topic)
}
