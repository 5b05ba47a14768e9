package dto

import (
	"time"

	"github.com/yukikurage/event-task-api/internal/models"
	"github.com/yukikurage/event-task-api/internal/services"
	"github.com/yukikurage/event-task-api/internal/utils"
)

type CreateEventRequest struct {
	Name      string    `json:"name" binding:"required"`
	Location  string    `json:"location" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

type UpdateEventRequest struct {
	Name      *string    `json:"name" binding:"omitempty,min=1"`
	Location  *string    `json:"location"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

// EventDTO represents an event in API responses. The shard key is never exposed.
type EventDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// EventListResponse is returned when page or limit is given
type EventListResponse struct {
	Events     []EventDTO               `json:"events"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

func (r CreateEventRequest) ToInput() services.CreateEventInput {
	return services.CreateEventInput{
		Name:      r.Name,
		Location:  r.Location,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
}

func (r UpdateEventRequest) ToInput() services.UpdateEventInput {
	return services.UpdateEventInput{
		Name:      r.Name,
		Location:  r.Location,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
}

func ToEventDTO(event models.Event) EventDTO {
	return EventDTO{
		ID:        event.ID,
		Name:      event.Name,
		Location:  event.Location,
		StartTime: FormatTime(event.StartTime),
		EndTime:   FormatTime(event.EndTime),
		CreatedAt: FormatTime(event.CreatedAt),
		UpdatedAt: FormatTime(event.UpdatedAt),
	}
}

func ToEventDTOs(events []models.Event) []EventDTO {
	items := make([]EventDTO, len(events))
	for i, event := range events {
		items[i] = ToEventDTO(event)
	}
	return items
}
