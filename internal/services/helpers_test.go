package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yukikurage/event-task-api/internal/models"
	"github.com/yukikurage/event-task-api/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Event{}, &models.Task{}, &models.TaskAssignment{}))
	return db
}

func seedEvent(t *testing.T, db *gorm.DB, name string) *models.Event {
	t.Helper()
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	event := &models.Event{Name: name, Location: "Tokyo", StartTime: start, EndTime: start.Add(8 * time.Hour)}
	require.NoError(t, db.Create(event).Error)
	return event
}

// seedUsers creates users with the given IDs.
func seedUsers(t *testing.T, db *gorm.DB, ids ...uint64) {
	t.Helper()
	for _, id := range ids {
		user := &models.User{ID: id, Email: fmt.Sprintf("user%d@example.com", id), Name: "user", PasswordHash: "x"}
		require.NoError(t, db.Create(user).Error)
	}
}

// spyStore counts how often task and user storage is reached.
type spyStore struct {
	repository.Store
	taskCalls int
	userCalls int
	txCalls   int
}

func (s *spyStore) Tasks() repository.TaskRepository {
	s.taskCalls++
	return s.Store.Tasks()
}

func (s *spyStore) Users() repository.UserRepository {
	s.userCalls++
	return s.Store.Users()
}

func (s *spyStore) Transaction(fn func(tx repository.Store) error) error {
	s.txCalls++
	return s.Store.Transaction(fn)
}

// faultyStore makes task row deletion fail inside transactions.
type faultyStore struct {
	repository.Store
	err error
}

func (s faultyStore) Transaction(fn func(tx repository.Store) error) error {
	return s.Store.Transaction(func(tx repository.Store) error {
		return fn(faultyStore{Store: tx, err: s.err})
	})
}

func (s faultyStore) Tasks() repository.TaskRepository {
	return failingTaskRepository{TaskRepository: s.Store.Tasks(), err: s.err}
}

type failingTaskRepository struct {
	repository.TaskRepository
	err error
}

func (r failingTaskRepository) Delete(string) error {
	return r.err
}
