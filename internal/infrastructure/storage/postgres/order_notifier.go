package postgres

import (
	"context"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/orders"
)

// OrderNotifier adapts the outbox publisher to the orders domain.
// Notifications commit with the transaction that produced them and are
// delivered later by the relay.
type OrderNotifier struct {
	pub *OutboxPublisher
}

// NewOrderNotifier creates an outbox-backed order notifier.
func NewOrderNotifier(pub *OutboxPublisher) *OrderNotifier {
	return &OrderNotifier{pub: pub}
}

// Publish queues the notification in the outbox.
func (n *OrderNotifier) Publish(ctx context.Context, event orders.Notification) error {
	return n.pub.Publish(ctx, Notification{
		Type:        event.Type,
		Title:       event.Title,
		Message:     event.Message,
		TargetRoles: event.TargetRoles,
		ReferenceID: event.ReferenceID,
	})
}

// Ensure interface compliance.
var _ orders.Notifier = (*OrderNotifier)(nil)
