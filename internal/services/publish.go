package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/danfirsten/Standup/internal/events"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

// publish emits a memory event. Delivery is best effort: the write it
// describes has already committed, so failures are logged and dropped.
func publish(ctx context.Context, bus events.Bus, log *logger.Logger, t events.Type, userID uuid.UUID, data any) {
	if bus == nil {
		return
	}
	ev, err := events.New(t, userID, data)
	if err == nil {
		err = bus.Publish(ctx, ev)
	}
	if err != nil {
		log.Warn("Memory event not published", "event", string(t), "user_id", userID.String(), "error", err)
	}
}
