package repository

import (
	"github.com/yukikurage/event-task-api/internal/database"
	"github.com/yukikurage/event-task-api/internal/models"
	"github.com/yukikurage/event-task-api/internal/utils"
	"gorm.io/gorm"
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// Create creates a new event
func (r *GormEventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

// FindByID finds an event by ID
func (r *GormEventRepository) FindByID(id string) (*models.Event, error) {
	var event models.Event
	if err := r.db.Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// List returns events ordered by start time
func (r *GormEventRepository) List(params utils.PaginationParams) ([]models.Event, int64, error) {
	var total int64
	if err := r.db.Model(&models.Event{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.Event
	if err := r.db.Order("start_time ASC").Order("id ASC").
		Scopes(database.Paginate(params)).
		Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// UpdateFields updates the given columns of an event
func (r *GormEventRepository) UpdateFields(id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.Event{}).Where("id = ?", id).Updates(fields).Error
}

// DeleteWithTasks deletes an event and all related data in a transaction
func (r *GormEventRepository) DeleteWithTasks(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("event_id = ?", id)

		// Delete assignments of every task in the event
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		// Delete all tasks in the event
		if err := tx.Where("event_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		// Delete event
		return tx.Where("id = ?", id).Delete(&models.Event{}).Error
	})
}
