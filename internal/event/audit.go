package event

import (
	"context"
	"log/slog"
)

// StartAuditLog subscribes to bus and writes every event to logger until ctx
// is done. The returned channel closes once the subscription is released.
func StartAuditLog(ctx context.Context, bus Bus, logger *slog.Logger) <-chan struct{} {
	events, unsubscribe := bus.Subscribe()
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				logAudit(logger, e)
			}
		}
	}()

	return done
}

func logAudit(logger *slog.Logger, e Event) {
	attrs := []any{
		"event_id", e.ID,
		"type", string(e.Type),
	}
	if e.ActorID != "" {
		attrs = append(attrs, "actor_id", e.ActorID)
	}
	for k, v := range e.Payload {
		attrs = append(attrs, k, v)
	}

	level := slog.LevelInfo
	if e.Type == TypeLoginFailed || e.Type == TypeRefreshReplayed {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, "audit", attrs...)
}
