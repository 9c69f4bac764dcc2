package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/parley-chat/parley-services/internal/events"
	"github.com/parley-chat/parley-services/models"
)

// RecordAudit persists a consumed event.
func (a *App) RecordAudit(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error encoding audit payload: %w", err)
	}
	createAt := event.CreateAt
	if createAt == 0 {
		createAt = a.millis()
	}
	return a.Store.SaveAudit(ctx, &models.Audit{
		ID:        NewID(),
		EventType: event.Type,
		ChannelID: event.ChannelID,
		UserID:    event.UserID,
		Payload:   string(payload),
		CreateAt:  createAt,
	})
}
