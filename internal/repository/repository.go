package repository

import (
	"github.com/yukikurage/event-task-api/internal/models"
	"github.com/yukikurage/event-task-api/internal/utils"
)

// Store is the key-addressed persistence for events, tasks, users and assignments.
type Store interface {
	Events() EventRepository
	Tasks() TaskRepository
	Users() UserRepository

	// Transaction runs fn against a Store bound to one database transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(fn func(tx Store) error) error
}

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Create creates a new event
	Create(event *models.Event) error

	// FindByID finds an event by ID
	FindByID(id string) (*models.Event, error)

	// List returns events ordered by start time, optionally paginated
	List(params utils.PaginationParams) ([]models.Event, int64, error)

	// UpdateFields applies a partial update to an event row
	UpdateFields(id string, fields map[string]any) error

	// DeleteWithTasks deletes an event, its tasks and their assignments
	DeleteWithTasks(id string) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a task row
	Create(task *models.Task) error

	// FindInEvent finds a task by ID within an event, with assignments preloaded
	FindInEvent(eventID, taskID string) (*models.Task, error)

	// ListByEvent lists the tasks of an event, with assignments preloaded
	ListByEvent(eventID string) ([]models.Task, error)

	// UpdateFields applies a partial update to a task row
	UpdateFields(taskID string, fields map[string]any) error

	// Delete deletes a task row. Assignments are not touched.
	Delete(taskID string) error

	// InsertAssignments inserts one assignment row per user ID
	InsertAssignments(taskID string, userIDs []uint64) error

	// DeleteAssignments deletes every assignment row of a task
	DeleteAssignments(taskID string) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindExistingIDs returns the subset of ids that belong to existing users
	FindExistingIDs(ids []uint64) ([]uint64, error)
}
