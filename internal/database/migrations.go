package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/event-task-api/internal/models"
)

// EnsureIndexes creates the lookup indexes the task queries rely on.
func EnsureIndexes(db *gorm.DB, log *zap.Logger) error {
	indexes := []struct {
		model any
		name  string
	}{
		// tasks are always read scoped by event
		{&models.Task{}, "idx_tasks_event_id"},
		// assignment deletes and preloads filter on task_id, which leads the primary key;
		// user_id needs its own index for user-side lookups
		{&models.TaskAssignment{}, "idx_task_assignments_user_id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.Debug("Index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		if err := migrator.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		log.Info("Created index", zap.String("index", idx.name))
	}

	return nil
}
