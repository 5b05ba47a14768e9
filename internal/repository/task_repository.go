package repository

import (
	"github.com/yukikurage/event-task-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create inserts the task row only; assignments are written separately
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Omit("Assignments").Create(task).Error
}

// FindInEvent finds a task by ID scoped to its event
func (r *GormTaskRepository) FindInEvent(eventID, taskID string) (*models.Task, error) {
	var task models.Task
	if err := r.db.Preload("Assignments").
		Where("id = ? AND event_id = ?", taskID, eventID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByEvent lists the tasks of one event in creation order
func (r *GormTaskRepository) ListByEvent(eventID string) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := r.db.Preload("Assignments").
		Where("event_id = ?", eventID).
		Order("created_at ASC").Order("id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateFields updates the given columns of a task
func (r *GormTaskRepository) UpdateFields(taskID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.Task{}).Where("id = ?", taskID).Updates(fields).Error
}

// Delete deletes the task row
func (r *GormTaskRepository) Delete(taskID string) error {
	return r.db.Where("id = ?", taskID).Delete(&models.Task{}).Error
}

// InsertAssignments assigns multiple users to a task
func (r *GormTaskRepository) InsertAssignments(taskID string, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}

	assignments := make([]models.TaskAssignment, len(userIDs))
	for i, userID := range userIDs {
		assignments[i] = models.TaskAssignment{
			TaskID: taskID,
			UserID: userID,
		}
	}

	return r.db.Create(&assignments).Error
}

// DeleteAssignments removes every assignment of a task
func (r *GormTaskRepository) DeleteAssignments(taskID string) error {
	return r.db.Where("task_id = ?", taskID).Delete(&models.TaskAssignment{}).Error
}
