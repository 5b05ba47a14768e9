package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/yukikurage/event-task-api/internal/dto"
	apierrors "github.com/yukikurage/event-task-api/internal/errors"
	"github.com/yukikurage/event-task-api/internal/models"
)

// TaskHandlerTestSuite drives the task routes through the full router
type TaskHandlerTestSuite struct {
	suite.Suite
	env   *testEnv
	event *models.Event
	base  string
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	suite.env = setupTestEnv(suite.T())
	suite.env.seedUsers(suite.T(), 1, 2, 3)
	suite.event = suite.env.seedEvent(suite.T(), "E1")
	suite.base = "/events/" + suite.event.ID + "/tasks"
}

func (suite *TaskHandlerTestSuite) createTask(title string, assignedTo ...uint64) dto.TaskDTO {
	w := suite.env.do(suite.T(), http.MethodPost, suite.base, map[string]any{
		"title":       title,
		"description": "daily sync",
		"due_time":    "2025-06-01T09:00:00Z",
		"assigned_to": assignedTo,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.TaskDTO](suite.T(), w)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	task := suite.createTask("Standup", 3, 1, 2, 1)

	suite.NotEmpty(task.ID)
	suite.Equal("Standup", task.Title)
	suite.Equal("2025-06-01T09:00:00.000Z", task.DueTime)
	suite.Equal(suite.event.ID, task.EventID)
	suite.Equal([]uint64{1, 2, 3}, task.AssignedTo)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidUserLeavesNoTrace() {
	suite.createTask("Standup", 3, 1, 2, 1)

	w := suite.env.do(suite.T(), http.MethodPost, suite.base, map[string]any{
		"title":       "Retro",
		"description": "...",
		"due_time":    "2025-06-01T09:00:00Z",
		"assigned_to": []uint64{1, 9},
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	body := decode[apierrors.APIError](suite.T(), w)
	suite.Equal(http.StatusBadRequest, body.StatusCode)
	suite.Equal("Bad Request", body.ErrorText)
	suite.Equal("Invalid user IDs: 9", body.Message)

	w = suite.env.do(suite.T(), http.MethodGet, suite.base, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	tasks := decode[[]dto.TaskListItemDTO](suite.T(), w)
	suite.Len(tasks, 1)
	for _, task := range tasks {
		suite.NotEqual("Retro", task.Title)
	}
}

func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidRequest() {
	cases := map[string]string{
		"missing assigned_to": `{"title":"T","description":"d","due_time":"2025-06-01T09:00:00Z"}`,
		"empty assigned_to":   `{"title":"T","description":"d","due_time":"2025-06-01T09:00:00Z","assigned_to":[]}`,
		"non-integer ids":     `{"title":"T","description":"d","due_time":"2025-06-01T09:00:00Z","assigned_to":["a"]}`,
		"zero id":             `{"title":"T","description":"d","due_time":"2025-06-01T09:00:00Z","assigned_to":[0]}`,
		"bad due_time":        `{"title":"T","description":"d","due_time":"tomorrow","assigned_to":[1]}`,
		"unknown field":       `{"title":"T","description":"d","due_time":"2025-06-01T09:00:00Z","assigned_to":[1],"status":"todo"}`,
		"not json":            `{`,
	}

	for name, body := range cases {
		suite.Run(name, func() {
			w := suite.env.do(suite.T(), http.MethodPost, suite.base, body)
			suite.Equal(http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	var count int64
	suite.env.db.Model(&models.Task{}).Count(&count)
	suite.Zero(count)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_UnknownFieldMessage() {
	w := suite.env.do(suite.T(), http.MethodPost, suite.base,
		`{"title":"T","description":"d","due_time":"2025-06-01T09:00:00Z","assigned_to":[1],"status":"todo"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("property status should not exist", decode[apierrors.APIError](suite.T(), w).Message)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_EventNotFound() {
	w := suite.env.do(suite.T(), http.MethodPost, "/events/missing/tasks", map[string]any{
		"title":       "T",
		"description": "d",
		"due_time":    "2025-06-01T09:00:00Z",
		"assigned_to": []uint64{1},
	})

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("Event with ID missing not found", decode[apierrors.APIError](suite.T(), w).Message)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Success() {
	suite.createTask("A", 2, 1)
	suite.createTask("B", 3)

	w := suite.env.do(suite.T(), http.MethodGet, suite.base, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.NotContains(w.Body.String(), "event_id")

	tasks := decode[[]dto.TaskListItemDTO](suite.T(), w)
	suite.Len(tasks, 2)
}

func (suite *TaskHandlerTestSuite) TestListTasks_EmptyEvent() {
	w := suite.env.do(suite.T(), http.MethodGet, suite.base, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, w.Body.String())
}

func (suite *TaskHandlerTestSuite) TestListTasks_Unauthorized() {
	w := suite.env.doAnonymous(suite.T(), http.MethodGet, suite.base, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask_Success() {
	task := suite.createTask("Standup", 2, 1)

	w := suite.env.do(suite.T(), http.MethodGet, suite.base+"/"+task.ID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	item := decode[dto.TaskListItemDTO](suite.T(), w)
	suite.Equal(task.ID, item.ID)
	suite.Equal([]uint64{1, 2}, item.AssignedTo)
	suite.NotContains(w.Body.String(), "event_id")
}

func (suite *TaskHandlerTestSuite) TestGetTask_OtherEventIsNotFound() {
	task := suite.createTask("Standup", 1)
	other := suite.env.seedEvent(suite.T(), "E2")

	w := suite.env.do(suite.T(), http.MethodGet, "/events/"+other.ID+"/tasks/"+task.ID, nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("Task with ID "+task.ID+" not found", decode[apierrors.APIError](suite.T(), w).Message)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_ReplacesAssignees() {
	task := suite.createTask("Standup", 1, 2)

	w := suite.env.do(suite.T(), http.MethodPut, suite.base+"/"+task.ID, map[string]any{
		"title":       "Daily standup",
		"assigned_to": []uint64{3},
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	updated := decode[dto.TaskListItemDTO](suite.T(), w)
	suite.Equal("Daily standup", updated.Title)
	suite.Equal("daily sync", updated.Description)
	suite.Equal([]uint64{3}, updated.AssignedTo)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_EmptyAndOmittedAssignees() {
	task := suite.createTask("Standup", 1, 2)

	w := suite.env.do(suite.T(), http.MethodPut, suite.base+"/"+task.ID, `{"description":"changed"}`)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal([]uint64{1, 2}, decode[dto.TaskListItemDTO](suite.T(), w).AssignedTo)

	w = suite.env.do(suite.T(), http.MethodPut, suite.base+"/"+task.ID, `{"assigned_to":null}`)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal([]uint64{1, 2}, decode[dto.TaskListItemDTO](suite.T(), w).AssignedTo)

	w = suite.env.do(suite.T(), http.MethodPut, suite.base+"/"+task.ID, `{"assigned_to":[]}`)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, extractAssigned(w.Body.String()))
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_InvalidUsers() {
	task := suite.createTask("Standup", 1)

	w := suite.env.do(suite.T(), http.MethodPut, suite.base+"/"+task.ID, map[string]any{
		"assigned_to": []uint64{12, 2, 9},
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Invalid user IDs: 12, 9", decode[apierrors.APIError](suite.T(), w).Message)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_Success() {
	task := suite.createTask("Standup", 3, 1)

	w := suite.env.do(suite.T(), http.MethodDelete, suite.base+"/"+task.ID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	deleted := decode[dto.TaskDTO](suite.T(), w)
	suite.Equal(task, deleted)

	var assignments int64
	suite.env.db.Model(&models.TaskAssignment{}).Where("task_id = ?", task.ID).Count(&assignments)
	suite.Zero(assignments)

	w = suite.env.do(suite.T(), http.MethodDelete, suite.base+"/"+task.ID, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestSuggestTasks_NotConfigured() {
	w := suite.env.do(suite.T(), http.MethodPost, suite.base+"/suggest", map[string]string{"text": "book a venue"})
	suite.Equal(http.StatusServiceUnavailable, w.Code)

	w = suite.env.do(suite.T(), http.MethodPost, "/events/missing/tasks/suggest", map[string]string{"text": "book a venue"})
	suite.Equal(http.StatusNotFound, w.Code)
}

// extractAssigned returns the raw assigned_to array of a task body.
func extractAssigned(body string) string {
	_, rest, _ := strings.Cut(body, `"assigned_to":`)
	end := strings.Index(rest, "]")
	return rest[:end+1]
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
