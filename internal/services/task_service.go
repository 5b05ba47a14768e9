package services

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apierrors "github.com/yukikurage/event-task-api/internal/errors"
	"github.com/yukikurage/event-task-api/internal/metrics"
	"github.com/yukikurage/event-task-api/internal/models"
	"github.com/yukikurage/event-task-api/internal/repository"
)

const assignedToField = "assigned_to"

// TaskService owns tasks and their assignment sets, always scoped by event.
type TaskService struct {
	store     repository.Store
	gate      *EventGate
	directory *UserDirectory
	logger    *zap.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(store repository.Store, logger *zap.Logger) *TaskService {
	return &TaskService{
		store:     store,
		gate:      NewEventGate(store),
		directory: NewUserDirectory(store),
		logger:    logger,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	DueTime     time.Time
	AssignedTo  []uint64
}

// UpdateTaskInput represents a partial update. Nil fields are left unchanged.
// A non-nil AssignedTo replaces the whole assignment set; an empty slice clears it.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	DueTime     *time.Time
	AssignedTo  *[]uint64
}

// TaskView is a task row plus its assignment set, sorted ascending without duplicates.
type TaskView struct {
	Task       models.Task
	AssignedTo []uint64
}

func newTaskView(task models.Task) TaskView {
	return TaskView{Task: task, AssignedTo: sortedUnique(task.AssignedUserIDs())}
}

// Create inserts a task and its assignments as one unit.
// Every referenced user is checked before anything is written.
func (s *TaskService) Create(eventID string, input CreateTaskInput) (*TaskView, error) {
	if _, err := s.gate.Verify(eventID); err != nil {
		return nil, err
	}

	if len(input.AssignedTo) == 0 {
		return nil, apierrors.MalformedInput(assignedToField, "must contain at least 1 element")
	}
	if err := validateAssigneeIDs(input.AssignedTo); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apierrors.MalformedInput("title", "should not be empty")
	}

	if err := s.ensureUsersExist(input.AssignedTo); err != nil {
		return nil, err
	}

	userIDs := uniqueUint64(input.AssignedTo)
	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		DueTime:     input.DueTime.UTC(),
		EventID:     eventID,
	}

	err := s.store.Transaction(func(tx repository.Store) error {
		if err := tx.Tasks().Create(task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		if err := tx.Tasks().InsertAssignments(task.ID, userIDs); err != nil {
			return fmt.Errorf("failed to assign users: %w", err)
		}
		return nil
	})
	metrics.RecordTaskWrite("create", err)
	if err != nil {
		return nil, s.fail("create", eventID, task.ID, err)
	}

	return &TaskView{Task: *task, AssignedTo: sortedUnique(userIDs)}, nil
}

// FindAll lists the tasks of an event. An event without tasks yields an empty list.
func (s *TaskService) FindAll(eventID string) ([]TaskView, error) {
	if _, err := s.gate.Verify(eventID); err != nil {
		return nil, err
	}

	tasks, err := s.store.Tasks().ListByEvent(eventID)
	if err != nil {
		return nil, s.fail("list", eventID, "", err)
	}

	views := make([]TaskView, len(tasks))
	for i, task := range tasks {
		views[i] = newTaskView(task)
	}
	return views, nil
}

// FindOne returns a task only if it belongs to the event.
func (s *TaskService) FindOne(eventID, taskID string) (*TaskView, error) {
	if _, err := s.gate.Verify(eventID); err != nil {
		return nil, err
	}

	task, err := s.findInEvent(s.store, eventID, taskID)
	if err != nil {
		return nil, err
	}

	view := newTaskView(*task)
	return &view, nil
}

// Update applies the scalar patch and, when given, replaces the assignment set.
// Replacement deletes every existing assignment and inserts the new set in the same unit.
func (s *TaskService) Update(eventID, taskID string, input UpdateTaskInput) (*TaskView, error) {
	if _, err := s.gate.Verify(eventID); err != nil {
		return nil, err
	}
	if _, err := s.findInEvent(s.store, eventID, taskID); err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, apierrors.MalformedInput("title", "should not be empty")
		}
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.DueTime != nil {
		fields["due_time"] = input.DueTime.UTC()
	}

	var userIDs []uint64
	if input.AssignedTo != nil && len(*input.AssignedTo) > 0 {
		if err := validateAssigneeIDs(*input.AssignedTo); err != nil {
			return nil, err
		}
		if err := s.ensureUsersExist(*input.AssignedTo); err != nil {
			return nil, err
		}
		userIDs = uniqueUint64(*input.AssignedTo)
	}

	var updated *models.Task
	err := s.store.Transaction(func(tx repository.Store) error {
		if input.AssignedTo != nil {
			if err := tx.Tasks().DeleteAssignments(taskID); err != nil {
				return fmt.Errorf("failed to clear assignments: %w", err)
			}
			if err := tx.Tasks().InsertAssignments(taskID, userIDs); err != nil {
				return fmt.Errorf("failed to assign users: %w", err)
			}
		}
		if err := tx.Tasks().UpdateFields(taskID, fields); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		var err error
		updated, err = s.findInEvent(tx, eventID, taskID)
		return err
	})
	metrics.RecordTaskWrite("update", err)
	if err != nil {
		return nil, s.fail("update", eventID, taskID, err)
	}

	view := newTaskView(*updated)
	return &view, nil
}

// Remove deletes a task's assignments and then the task, as one unit.
// It returns the task as it was before deletion.
func (s *TaskService) Remove(eventID, taskID string) (*TaskView, error) {
	if _, err := s.gate.Verify(eventID); err != nil {
		return nil, err
	}

	task, err := s.findInEvent(s.store, eventID, taskID)
	if err != nil {
		return nil, err
	}
	snapshot := newTaskView(*task)

	err = s.store.Transaction(func(tx repository.Store) error {
		if err := tx.Tasks().DeleteAssignments(taskID); err != nil {
			return fmt.Errorf("failed to delete assignments: %w", err)
		}
		if err := tx.Tasks().Delete(taskID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		return nil
	})
	metrics.RecordTaskWrite("remove", err)
	if err != nil {
		return nil, s.fail("remove", eventID, taskID, err)
	}

	return &snapshot, nil
}

// findInEvent treats a task of another event as not found.
func (s *TaskService) findInEvent(store repository.Store, eventID, taskID string) (*models.Task, error) {
	task, err := store.Tasks().FindInEvent(eventID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NotFound("Task", taskID)
		}
		return nil, apierrors.Translate(fmt.Errorf("failed to find task: %w", err))
	}
	return task, nil
}

// ensureUsersExist fails with InvalidReference listing every unknown id.
func (s *TaskService) ensureUsersExist(ids []uint64) error {
	existing, err := s.directory.Resolve(uniqueUint64(ids))
	if err != nil {
		return err
	}
	if missing := Missing(ids, existing); len(missing) > 0 {
		return apierrors.InvalidReference(assignedToField, missing)
	}
	return nil
}

// fail translates err and logs it when it is not a caller error.
func (s *TaskService) fail(op, eventID, taskID string, err error) error {
	translated := apierrors.Translate(err)

	switch apierrors.KindOf(translated) {
	case apierrors.KindInternal:
		s.logger.Error("task write failed",
			zap.String("op", op),
			zap.String("event_id", eventID),
			zap.String("task_id", taskID),
			zap.Error(err),
		)
	case apierrors.KindTransientStorage:
		s.logger.Warn("task write hit a transient storage error",
			zap.String("op", op),
			zap.String("event_id", eventID),
			zap.String("task_id", taskID),
			zap.Error(err),
		)
	}
	return translated
}

// validateAssigneeIDs keeps ids within the signed 64-bit range the storage drivers accept.
func validateAssigneeIDs(ids []uint64) error {
	for _, id := range ids {
		if id == 0 {
			return apierrors.MalformedInput(assignedToField, "must contain only positive integers")
		}
		if id > math.MaxInt64 {
			return apierrors.MalformedInput(assignedToField, "must not exceed 9223372036854775807")
		}
	}
	return nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}

func sortedUnique(values []uint64) []uint64 {
	result := uniqueUint64(values)
	slices.Sort(result)
	return result
}
