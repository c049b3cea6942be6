package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/events"
)

const (
	approvalSubject = "Complaint approved"
	approvalBody    = "Congrats! Your claim is approved, check your bank account in 2 days for your refund."
)

// Mailer abstracts outgoing email.
type Mailer interface {
	Send(ctx context.Context, subject string, to []string, body string) error
}

// NotificationService reacts to complaint events. Mail failures are
// logged and never block the workflow that emitted the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     Mailer
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer Mailer, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	n.dispatcher.Subscribe(events.EventComplaintApproved, n.handleComplaintApproved)
	n.dispatcher.Subscribe(events.EventComplaintRejected, n.handleComplaintRejected)
	n.dispatcher.Subscribe(events.EventComplaintDeleted, n.handleComplaintDeleted)
}

func (n *NotificationService) handleComplaintCreated(_ context.Context, event events.Event) error {
	n.logger.Info("ComplaintCreated", zap.String("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleComplaintApproved(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintApproved", zap.String("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))

	payload, ok := event.Payload.(events.ComplaintApprovedPayload)
	if !ok || payload.ComplainerEmail == "" {
		n.logger.Warn("approval event without complainer email", zap.String("complaint_id", event.ComplaintID))
		return nil
	}
	if n.mailer == nil {
		return nil
	}
	if err := n.mailer.Send(ctx, approvalSubject, []string{payload.ComplainerEmail}, approvalBody); err != nil {
		n.logger.Error("approval mail failed",
			zap.String("complaint_id", event.ComplaintID),
			zap.String("recipient", payload.ComplainerEmail),
			zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handleComplaintRejected(_ context.Context, event events.Event) error {
	n.logger.Info("ComplaintRejected", zap.String("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleComplaintDeleted(_ context.Context, event events.Event) error {
	n.logger.Info("ComplaintDeleted", zap.String("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	return nil
}
