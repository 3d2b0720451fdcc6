package events

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/timesheet-management/pkg/logger"
)

// RegisterAuditLog writes every lifecycle event to the context logger of the
// publishing call, or to fallback.
func RegisterAuditLog(bus *EventBus, fallback *slog.Logger) {
	bus.SubscribeAll(UserEventTypes, func(ctx context.Context, event Event) error {
		logger.FromOr(ctx, fallback).InfoContext(ctx, "audit",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	})
}
