package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apierrors "github.com/yukikurage/event-task-api/internal/errors"
	"github.com/yukikurage/event-task-api/internal/models"
	"github.com/yukikurage/event-task-api/internal/repository"
)

// EventGate confirms an event exists before any task operation runs.
type EventGate struct {
	store repository.Store
}

func NewEventGate(store repository.Store) *EventGate {
	return &EventGate{store: store}
}

// Verify returns the event or a NotFound error. It never writes.
func (g *EventGate) Verify(eventID string) (*models.Event, error) {
	event, err := g.store.Events().FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NotFound("Event", eventID)
		}
		return nil, apierrors.Translate(fmt.Errorf("failed to find event: %w", err))
	}
	return event, nil
}
