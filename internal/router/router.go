package router

import (
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/event-task-api/internal/auth"
	"github.com/yukikurage/event-task-api/internal/config"
	"github.com/yukikurage/event-task-api/internal/constants"
	"github.com/yukikurage/event-task-api/internal/handlers"
	"github.com/yukikurage/event-task-api/internal/logging"
	"github.com/yukikurage/event-task-api/internal/metrics"
	"github.com/yukikurage/event-task-api/internal/middleware"
	"github.com/yukikurage/event-task-api/internal/repository"
	"github.com/yukikurage/event-task-api/internal/services"
)

// Dependencies are the collaborators the route table is built from.
type Dependencies struct {
	DB           *gorm.DB
	Logger       *zap.Logger
	Tokens       *auth.TokenIssuer
	SessionStore sessions.Store
	OpenAIAPIKey string
	Metrics      config.MetricsConfig

	// Suggestions overrides the OpenAI backed service when set.
	Suggestions *services.SuggestionService
}

var configureBinding sync.Once

// New wires services and handlers and returns the HTTP engine.
func New(deps Dependencies) *gin.Engine {
	configureBinding.Do(setupBinding)

	store := repository.NewStore(deps.DB)

	authService := services.NewAuthService(store, deps.Tokens)
	eventService := services.NewEventService(store, deps.Logger)
	taskService := services.NewTaskService(store, deps.Logger)
	suggestionService := deps.Suggestions
	if suggestionService == nil {
		suggestionService = services.NewSuggestionService(deps.OpenAIAPIKey, store, deps.Logger)
	}

	authHandler := handlers.NewAuthHandler(authService, deps.Logger)
	eventHandler := handlers.NewEventHandler(eventService)
	taskHandler := handlers.NewTaskHandler(taskService, suggestionService, deps.Logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.RequestLogger(deps.Logger))
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.SessionStore))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Event Task API is running",
		})
	})

	if deps.Metrics.Enabled {
		r.GET(deps.Metrics.Path, metrics.Handler())
	}

	requireAuth := middleware.RequireAuth(deps.Tokens)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/me", requireAuth, authHandler.GetCurrentUser)
	}

	events := r.Group("/events")
	events.Use(requireAuth)
	{
		events.POST("", eventHandler.CreateEvent)
		events.GET("", eventHandler.ListEvents)
		events.GET("/:eventId", eventHandler.GetEvent)
		events.PUT("/:eventId", eventHandler.UpdateEvent)
		events.DELETE("/:eventId", eventHandler.DeleteEvent)

		tasks := events.Group("/:eventId/tasks")
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("/suggest", taskHandler.SuggestTasks)
			tasks.GET("/:taskId", taskHandler.GetTask)
			tasks.PUT("/:taskId", taskHandler.UpdateTask)
			tasks.DELETE("/:taskId", taskHandler.DeleteTask)
		}
	}

	return r
}

// setupBinding rejects unknown JSON fields and reports validation errors by JSON name.
func setupBinding() {
	binding.EnableDecoderDisallowUnknownFields = true

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	}
}
