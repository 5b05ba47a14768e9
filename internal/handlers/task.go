package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yukikurage/event-task-api/internal/dto"
	apierrors "github.com/yukikurage/event-task-api/internal/errors"
	"github.com/yukikurage/event-task-api/internal/services"
)

type TaskHandler struct {
	taskService       *services.TaskService
	suggestionService *services.SuggestionService
	logger            *zap.Logger
}

func NewTaskHandler(taskService *services.TaskService, suggestionService *services.SuggestionService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskService:       taskService,
		suggestionService: suggestionService,
		logger:            logger,
	}
}

// CreateTask creates a task in the event named by the path
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.taskService.Create(c.Param("eventId"), req.ToInput())
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*view))
}

// ListTasks returns all tasks of an event
func (h *TaskHandler) ListTasks(c *gin.Context) {
	views, err := h.taskService.FindAll(c.Param("eventId"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListItemDTOs(views))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	view, err := h.taskService.FindOne(c.Param("eventId"), c.Param("taskId"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListItemDTO(*view))
}

// UpdateTask updates task fields and, when given, replaces its assignees
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.taskService.Update(c.Param("eventId"), c.Param("taskId"), req.ToInput())
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListItemDTO(*view))
}

// DeleteTask deletes a task and responds with what was deleted
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	view, err := h.taskService.Remove(c.Param("eventId"), c.Param("taskId"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*view))
}

// SuggestTasks drafts tasks from free text without saving them
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	var req dto.SuggestTasksRequest
	if !bindJSON(c, &req) {
		return
	}

	eventID := c.Param("eventId")
	tasks, err := h.suggestionService.Suggest(c.Request.Context(), eventID, req.Text)
	if err != nil {
		if _, ok := apierrors.As(err); ok {
			apierrors.Respond(c, err)
			return
		}
		switch {
		case errors.Is(err, services.ErrAIServiceNotConfigured):
			apierrors.ServiceUnavailable(c, "AI service is not configured")
		case errors.Is(err, services.ErrAINoTasksGenerated), errors.Is(err, services.ErrAINoValidTasks):
			apierrors.Respond(c, apierrors.MalformedInput("text", "did not yield any tasks"))
		default:
			h.logger.Error("task suggestion failed", zap.String("event_id", eventID), zap.Error(err))
			apierrors.Respond(c, apierrors.Internal(err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToSuggestedTaskDTOs(tasks)})
}
