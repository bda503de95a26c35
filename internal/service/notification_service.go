package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/rizwanhussain01/EventHub/internal/events"
)

// NotificationService reacts to domain events. Actual delivery (email,
// webhooks) is out of scope; handlers log a structured audit line so the
// hooks are in place.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRegistrationCompleted, n.handleRegistrationCompleted)
	n.dispatcher.Subscribe(events.EventTicketCancelled, n.handleTicketCancelled)
	n.dispatcher.Subscribe(events.EventPublished, n.handleEventPublished)
}

func (n *NotificationService) handleRegistrationCompleted(ctx context.Context, event events.Event) error {
	n.logger.Info("RegistrationCompleted",
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTicketCancelled(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketCancelled",
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleEventPublished(ctx context.Context, event events.Event) error {
	n.logger.Info("EventPublished",
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))
	return nil
}
