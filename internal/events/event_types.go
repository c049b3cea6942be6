package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated  EventType = "complaint_created"
	EventComplaintApproved EventType = "complaint_approved"
	EventComplaintRejected EventType = "complaint_rejected"
	EventComplaintDeleted  EventType = "complaint_deleted"
)

// Event represents a domain event emitted by services after commit.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	ActorID     string      `json:"actor_id"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	ComplainerID string            `json:"complainer_id"`
	Title        string            `json:"title"`
	Amount       decimal.Decimal   `json:"amount"`
	TransferID   domain.TransferID `json:"transfer_id"`
}

// ComplaintApprovedPayload payload.
type ComplaintApprovedPayload struct {
	ComplainerEmail string            `json:"complainer_email"`
	TransferID      domain.TransferID `json:"transfer_id"`
	FundStatus      string            `json:"fund_status"`
}

// ComplaintRejectedPayload payload.
type ComplaintRejectedPayload struct {
	ComplainerEmail string            `json:"complainer_email"`
	TransferID      domain.TransferID `json:"transfer_id"`
}

// ComplaintDeletedPayload payload.
type ComplaintDeletedPayload struct {
	Status     domain.ComplaintStatus `json:"status"`
	TransferID domain.TransferID      `json:"transfer_id,omitempty"`
}
