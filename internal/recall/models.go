// Package recall holds the product-recall aggregate and its lifecycle rules.
//
// A Recall is the unit of consistency: it owns its distributor obligations
// and its audit trail, and every command is a read-modify-write of one
// aggregate. Statuses are closed enums and the lifecycle is encoded in an
// explicit transition function so illegal moves are rejected in one place.
package recall

import (
	"time"

	dErrors "guardian/pkg/domain-errors"
)

// Status is the recall-level lifecycle state. A recall only moves forward:
// RECALL_INITIATED -> NOTIFICATIONS_SENT -> RETURNS_IN_PROGRESS -> RECALL_CLOSED.
type Status string

const (
	StatusInitiated         Status = "RECALL_INITIATED"
	StatusNotificationsSent Status = "NOTIFICATIONS_SENT"
	StatusReturnsInProgress Status = "RETURNS_IN_PROGRESS"
	StatusClosed            Status = "RECALL_CLOSED"
)

// rank orders statuses for the no-regression rule.
func (s Status) rank() int {
	switch s {
	case StatusInitiated:
		return 0
	case StatusNotificationsSent:
		return 1
	case StatusReturnsInProgress:
		return 2
	case StatusClosed:
		return 3
	}
	return -1
}

// ObligationStatus tracks one distributor's progress within a recall.
type ObligationStatus string

const (
	ObligationPending      ObligationStatus = "PENDING"
	ObligationAcknowledged ObligationStatus = "ACKNOWLEDGED"
	ObligationReturned     ObligationStatus = "RETURNED"
)

// Command names a status-changing instruction for the transition function.
type Command string

const (
	// CommandSendNotifications records that distributor notifications went out.
	CommandSendNotifications Command = "send_notifications"
	// CommandAllAcknowledged is the system-initiated advance fired when the
	// last pending obligation is acknowledged.
	CommandAllAcknowledged Command = "all_acknowledged"
	// CommandClose closes the recall once aggregate quantities reconcile.
	CommandClose Command = "close"
)

// Audit trail action tags. One per mutating operation, plus the
// system-attributed marker for the automatic advance.
const (
	ActionInitiateRecall    = "INITIATE_RECALL"
	ActionSendNotifications = "SEND_NOTIFICATIONS"
	ActionAcknowledge       = "ACKNOWLEDGE"
	ActionAllAcknowledged   = "ALL_ACKNOWLEDGED"
	ActionUpdateReturn      = "UPDATE_RETURN"
	ActionCloseRecall       = "CLOSE_RECALL"
)

// SystemActor attributes audit entries produced by the state machine itself
// rather than by a calling principal.
const SystemActor = "system"

// Next applies a command to the current status and returns the resulting
// status. It is the single source of truth for legal lifecycle moves.
//
// CommandAllAcknowledged and CommandClose never move the status backwards:
// acknowledging a straggler in an already-advanced recall keeps the current
// status, and a repeated close re-yields RECALL_CLOSED.
func Next(current Status, cmd Command) (Status, error) {
	switch cmd {
	case CommandSendNotifications:
		if current != StatusInitiated {
			return current, dErrors.Newf(dErrors.CodeConflict, "invalid state transition from %s", current)
		}
		return StatusNotificationsSent, nil
	case CommandAllAcknowledged:
		if current.rank() >= StatusReturnsInProgress.rank() {
			return current, nil
		}
		return StatusReturnsInProgress, nil
	case CommandClose:
		// Closing is guarded by aggregate quantities, not by status.
		return StatusClosed, nil
	}
	return current, dErrors.Newf(dErrors.CodeInternal, "unknown lifecycle command %q", cmd)
}

// Obligation is one distributor's duty to return distributed units. It has
// no identity outside its owning recall.
type Obligation struct {
	DistributorID       string           `json:"distributorId"`
	DistributorName     string           `json:"distributorName"`
	ContactEmail        string           `json:"contactEmail,omitempty"`
	QuantityDistributed int64            `json:"quantityDistributed"`
	QuantityReturned    int64            `json:"quantityReturned"`
	Status              ObligationStatus `json:"status"`
	AcknowledgmentAt    *time.Time       `json:"acknowledgmentAt,omitempty"`
	ReturnCompletedAt   *time.Time       `json:"returnCompletedAt,omitempty"`
}

// AddReturns additively records returned units. The running total is clamped
// at QuantityDistributed rather than rejected; reaching it flips the
// obligation to RETURNED and stamps the completion time once. The clamp is
// checked against the remaining headroom first so an arbitrarily large
// quantity cannot wrap the counter.
func (o *Obligation) AddReturns(quantity int64, at time.Time) {
	if quantity < o.QuantityDistributed-o.QuantityReturned {
		o.QuantityReturned += quantity
		return
	}
	o.QuantityReturned = o.QuantityDistributed
	if o.Status != ObligationReturned {
		o.Status = ObligationReturned
		completed := at
		o.ReturnCompletedAt = &completed
	}
}

// AuditEntry is one immutable record of an action taken against a recall.
type AuditEntry struct {
	At      time.Time      `json:"at"`
	Actor   string         `json:"actor"`
	Action  string         `json:"action"`
	Details map[string]any `json:"details,omitempty"`
}

// Recall is the aggregate root tracking one product recall end to end.
// CreatedAt, UpdatedAt, and Version are maintained by the persistence layer.
type Recall struct {
	ID                       string       `json:"recallId"`
	ProductName              string       `json:"productName"`
	BatchID                  string       `json:"batchId"`
	Reason                   string       `json:"reason"`
	InitiatedBy              string       `json:"initiatedBy"`
	InitiatedAt              time.Time    `json:"initiatedAt"`
	Status                   Status       `json:"status"`
	Distributors             []Obligation `json:"distributors"`
	TotalQuantityDistributed int64        `json:"totalQuantityDistributed"`
	TotalQuantityReturned    int64        `json:"totalQuantityReturned"`
	AuditTrail               []AuditEntry `json:"auditTrail"`
	CreatedAt                time.Time    `json:"createdAt"`
	UpdatedAt                time.Time    `json:"updatedAt"`
	Version                  int64        `json:"-"`
}

// Obligation returns the obligation for the given distributor, or nil when
// the distributor is not part of this recall.
func (r *Recall) Obligation(distributorID string) *Obligation {
	for i := range r.Distributors {
		if r.Distributors[i].DistributorID == distributorID {
			return &r.Distributors[i]
		}
	}
	return nil
}

// Record appends an audit entry. The trail only ever grows.
func (r *Recall) Record(at time.Time, actor, action string, details map[string]any) {
	r.AuditTrail = append(r.AuditTrail, AuditEntry{At: at, Actor: actor, Action: action, Details: details})
}

// Clone deep-copies the aggregate so stores can hand out and retain
// independent instances.
func (r *Recall) Clone() *Recall {
	out := *r
	out.Distributors = make([]Obligation, len(r.Distributors))
	for i, o := range r.Distributors {
		if o.AcknowledgmentAt != nil {
			t := *o.AcknowledgmentAt
			o.AcknowledgmentAt = &t
		}
		if o.ReturnCompletedAt != nil {
			t := *o.ReturnCompletedAt
			o.ReturnCompletedAt = &t
		}
		out.Distributors[i] = o
	}
	out.AuditTrail = make([]AuditEntry, len(r.AuditTrail))
	for i, e := range r.AuditTrail {
		if e.Details != nil {
			details := make(map[string]any, len(e.Details))
			for k, v := range e.Details {
				details[k] = v
			}
			e.Details = details
		}
		out.AuditTrail[i] = e
	}
	return &out
}
