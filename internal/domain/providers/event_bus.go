package providers

import (
	"context"

	"github.com/zatekoja/strokescreening/internal/domain/entities"
)

// EventBus publishes diagnosis lifecycle events to interested collaborators
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.DiagnosisEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.DiagnosisEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelDiagnosisCompleted carries completed-diagnosis notifications
const EventChannelDiagnosisCompleted = "diagnosis:completed"
