// Package events carries recall lifecycle transitions onto Kafka.
//
// One topic per transition, one message per completed state change, keyed by
// recall ID so consumers see a single recall's notifications in emission
// order. Publishing is best-effort and strictly follows the durable store
// write; a failed publish is logged and dropped, never retried, and never
// rolls back the state change.
package events

// Topic names, one per lifecycle transition.
const (
	TopicRecallInitiated         = "guardian.recall.initiated"
	TopicNotificationsSent       = "guardian.notifications.sent"
	TopicDistributorAcknowledged = "guardian.distributor.acknowledged"
	TopicReturnsUpdated          = "guardian.returns.updated"
	TopicReturnsInProgress       = "guardian.returns.in_progress"
	TopicRecallClosed            = "guardian.recall.closed"
)

// AllTopics lists every topic this service produces, for startup creation.
func AllTopics() []string {
	return []string{
		TopicRecallInitiated,
		TopicNotificationsSent,
		TopicDistributorAcknowledged,
		TopicReturnsUpdated,
		TopicReturnsInProgress,
		TopicRecallClosed,
	}
}

// Payload is the wire body of every transition event. DistributorID is only
// set on distributor-scoped events.
type Payload struct {
	RecallID      string `json:"recallId"`
	DistributorID string `json:"distributorId,omitempty"`
}
