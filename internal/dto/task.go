package dto

import (
	"time"

	"github.com/yukikurage/event-task-api/internal/services"
)

// CreateTaskRequest is the body of POST /events/:eventId/tasks
type CreateTaskRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	DueTime     time.Time `json:"due_time" binding:"required"`
	AssignedTo  []uint64  `json:"assigned_to" binding:"required,min=1,dive,gt=0"`
}

// UpdateTaskRequest is the body of PUT /events/:eventId/tasks/:taskId.
// An explicit empty assigned_to clears the assignments; omitted or null leaves them.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1"`
	Description *string    `json:"description" binding:"omitempty,min=1"`
	DueTime     *time.Time `json:"due_time"`
	AssignedTo  *[]uint64  `json:"assigned_to"`
}

// SuggestTasksRequest is the body of POST /events/:eventId/tasks/suggest
type SuggestTasksRequest struct {
	Text string `json:"text" binding:"required,max=10000"`
}

// TaskDTO is returned by create and delete
type TaskDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueTime     string   `json:"due_time"`
	EventID     string   `json:"event_id"`
	AssignedTo  []uint64 `json:"assigned_to"`
}

// TaskListItemDTO is returned by list, find one and update; it has no event_id
type TaskListItemDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueTime     string   `json:"due_time"`
	AssignedTo  []uint64 `json:"assigned_to"`
}

// SuggestedTaskDTO is a draft task proposed for an event
type SuggestedTaskDTO struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueTime     *string `json:"due_time"`
}

func (r CreateTaskRequest) ToInput() services.CreateTaskInput {
	return services.CreateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		DueTime:     r.DueTime,
		AssignedTo:  r.AssignedTo,
	}
}

func (r UpdateTaskRequest) ToInput() services.UpdateTaskInput {
	return services.UpdateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		DueTime:     r.DueTime,
		AssignedTo:  r.AssignedTo,
	}
}

// ToTaskDTO converts a TaskView to TaskDTO
func ToTaskDTO(view services.TaskView) TaskDTO {
	return TaskDTO{
		ID:          view.Task.ID,
		Title:       view.Task.Title,
		Description: view.Task.Description,
		DueTime:     FormatTime(view.Task.DueTime),
		EventID:     view.Task.EventID,
		AssignedTo:  nonNil(view.AssignedTo),
	}
}

// ToTaskListItemDTO converts a TaskView to TaskListItemDTO
func ToTaskListItemDTO(view services.TaskView) TaskListItemDTO {
	return TaskListItemDTO{
		ID:          view.Task.ID,
		Title:       view.Task.Title,
		Description: view.Task.Description,
		DueTime:     FormatTime(view.Task.DueTime),
		AssignedTo:  nonNil(view.AssignedTo),
	}
}

func ToTaskListItemDTOs(views []services.TaskView) []TaskListItemDTO {
	items := make([]TaskListItemDTO, len(views))
	for i, view := range views {
		items[i] = ToTaskListItemDTO(view)
	}
	return items
}

func ToSuggestedTaskDTOs(tasks []services.SuggestedTask) []SuggestedTaskDTO {
	items := make([]SuggestedTaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = SuggestedTaskDTO{Title: task.Title, Description: task.Description}
		if task.DueTime != nil {
			due := FormatTime(*task.DueTime)
			items[i].DueTime = &due
		}
	}
	return items
}

func nonNil(ids []uint64) []uint64 {
	if ids == nil {
		return []uint64{}
	}
	return ids
}
