// util/notification_service.go

package util

import (
	"context"

	"go.uber.org/zap"

	logger "github.com/doorward-io/doorward/logging"
	"github.com/doorward-io/doorward/model"
)

// NotificationService is the push fan-out collaborator: it subscribes to
// terminal access-event transitions and forwards them to whatever clients
// are listening. The engine never waits on it.
type NotificationService struct {
	// A message queue or push-gateway client would live here.
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// SubscribeTerminalEvents wires the service onto the event bus.
func (n *NotificationService) SubscribeTerminalEvents(eventBus *EventBus) {
	eventBus.Subscribe(EventTerminal, n.handleTerminalEvent)
}

func (n *NotificationService) handleTerminalEvent(ctx context.Context, event Event) error {
	accessEvent, ok := event.Payload.(model.AccessEvent)
	if !ok {
		logger.Warn("Terminal event with unexpected payload type", zap.String("eventType", event.Type))
		return nil
	}
	return n.NotifyAccessResolved(ctx, accessEvent)
}

// NotifyAccessResolved pushes the terminal state of an access event to the
// subject's clients.
func (n *NotificationService) NotifyAccessResolved(ctx context.Context, event model.AccessEvent) error {
	logger.Info("NOTIFICATION: Access event resolved",
		zap.String("eventID", event.EventID),
		zap.String("subjectUserID", event.SubjectUserID),
		zap.String("state", string(event.State)))

	// Here you would implement the actual push logic — a message queue,
	// a push-gateway call, etc.

	return nil
}

// NotifyAdmins alerts system administrators, e.g. on actuator anomalies.
func (n *NotificationService) NotifyAdmins(ctx context.Context, message string) error {
	logger.Info("Notifying admins", zap.String("message", message))
	return nil
}
