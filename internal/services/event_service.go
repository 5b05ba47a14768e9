package services

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	apierrors "github.com/yukikurage/event-task-api/internal/errors"
	"github.com/yukikurage/event-task-api/internal/models"
	"github.com/yukikurage/event-task-api/internal/repository"
	"github.com/yukikurage/event-task-api/internal/utils"
)

// EventService handles plain event CRUD.
type EventService struct {
	store  repository.Store
	gate   *EventGate
	logger *zap.Logger
}

// NewEventService creates a new EventService
func NewEventService(store repository.Store, logger *zap.Logger) *EventService {
	return &EventService{
		store:  store,
		gate:   NewEventGate(store),
		logger: logger,
	}
}

type CreateEventInput struct {
	Name      string
	Location  string
	StartTime time.Time
	EndTime   time.Time
}

type UpdateEventInput struct {
	Name      *string
	Location  *string
	StartTime *time.Time
	EndTime   *time.Time
}

func (s *EventService) Create(input CreateEventInput) (*models.Event, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apierrors.MalformedInput("name", "should not be empty")
	}
	if input.EndTime.Before(input.StartTime) {
		return nil, apierrors.MalformedInput("end_time", "must not be before start_time")
	}

	event := &models.Event{
		Name:      input.Name,
		Location:  input.Location,
		StartTime: input.StartTime.UTC(),
		EndTime:   input.EndTime.UTC(),
	}
	if err := s.store.Events().Create(event); err != nil {
		return nil, s.fail("create", "", err)
	}
	return event, nil
}

// List returns events by start time. Zero params return every event.
func (s *EventService) List(params utils.PaginationParams) ([]models.Event, int64, error) {
	events, total, err := s.store.Events().List(params)
	if err != nil {
		return nil, 0, s.fail("list", "", err)
	}
	return events, total, nil
}

func (s *EventService) Get(id string) (*models.Event, error) {
	return s.gate.Verify(id)
}

func (s *EventService) Update(id string, input UpdateEventInput) (*models.Event, error) {
	event, err := s.gate.Verify(id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apierrors.MalformedInput("name", "should not be empty")
		}
		fields["name"] = *input.Name
	}
	if input.Location != nil {
		fields["location"] = *input.Location
	}
	start, end := event.StartTime, event.EndTime
	if input.StartTime != nil {
		start = input.StartTime.UTC()
		fields["start_time"] = start
	}
	if input.EndTime != nil {
		end = input.EndTime.UTC()
		fields["end_time"] = end
	}
	if end.Before(start) {
		return nil, apierrors.MalformedInput("end_time", "must not be before start_time")
	}

	if err := s.store.Events().UpdateFields(id, fields); err != nil {
		return nil, s.fail("update", id, err)
	}
	return s.gate.Verify(id)
}

// Delete removes the event together with its tasks and their assignments.
func (s *EventService) Delete(id string) error {
	if _, err := s.gate.Verify(id); err != nil {
		return err
	}
	if err := s.store.Events().DeleteWithTasks(id); err != nil {
		return s.fail("delete", id, err)
	}
	return nil
}

func (s *EventService) fail(op, eventID string, err error) error {
	translated := apierrors.Translate(fmt.Errorf("failed to %s event: %w", op, err))
	if apierrors.KindOf(translated) == apierrors.KindInternal {
		s.logger.Error("event write failed",
			zap.String("op", op),
			zap.String("event_id", eventID),
			zap.Error(err),
		)
	}
	return translated
}
