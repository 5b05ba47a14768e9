package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/yukikurage/event-task-api/internal/constants"
	"github.com/yukikurage/event-task-api/internal/repository"
)

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// ChatCompleter is the part of the OpenAI client used for suggestions.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// SuggestedTask is a draft task. It is never persisted by SuggestionService.
type SuggestedTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueTime     *time.Time `json:"due_time"`
}

// SuggestionService drafts tasks for an event from free text.
type SuggestionService struct {
	client ChatCompleter
	gate   *EventGate
	logger *zap.Logger
	now    func() time.Time
}

// NewSuggestionService returns a service without a client when apiKey is empty.
func NewSuggestionService(apiKey string, store repository.Store, logger *zap.Logger) *SuggestionService {
	var client ChatCompleter
	if apiKey != "" {
		client = openai.NewClient(apiKey)
	}
	return NewSuggestionServiceWithClient(client, store, logger)
}

func NewSuggestionServiceWithClient(client ChatCompleter, store repository.Store, logger *zap.Logger) *SuggestionService {
	return &SuggestionService{
		client: client,
		gate:   NewEventGate(store),
		logger: logger,
		now:    time.Now,
	}
}

// Suggest asks the model for tasks extracted from text, in the context of the event.
func (s *SuggestionService) Suggest(ctx context.Context, eventID, text string) ([]SuggestedTask, error) {
	event, err := s.gate.Verify(eventID)
	if err != nil {
		return nil, err
	}
	if s.client == nil {
		return nil, ErrAIServiceNotConfigured
	}

	now := s.now()
	prompt := fmt.Sprintf(`You extract concrete tasks for an event from the text below.

Current time: %s
Event: %s
Location: %s
Event starts: %s
Event ends: %s

Text:
%s

Return a JSON array of tasks in this format:
[
  {
    "title": "short task title",
    "description": "task details",
    "due_time": "deadline in ISO8601, e.g. 2025-10-28T23:59:59Z, or null when no deadline is stated"
  }
]

Rules:
- Return [] when there are no tasks
- Convert relative expressions ("tomorrow", "the day before the event") into concrete date-times
- due_time must be an ISO8601 string or null
- Return JSON only, without any explanation`,
		now.UTC().Format(time.RFC3339),
		event.Name,
		event.Location,
		event.StartTime.UTC().Format(time.RFC3339),
		event.EndTime.UTC().Format(time.RFC3339),
		text,
	)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4o,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var tasks []SuggestedTask
	if err := json.Unmarshal([]byte(content), &tasks); err != nil {
		s.logger.Warn("unparseable suggestion response", zap.String("event_id", eventID), zap.String("content", content))
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	if len(tasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(tasks) > constants.MaxSuggestedTasks {
		tasks = tasks[:constants.MaxSuggestedTasks]
	}

	valid := make([]SuggestedTask, 0, len(tasks))
	cutoff := now.Add(-24 * time.Hour)
	for _, task := range tasks {
		if strings.TrimSpace(task.Title) == "" {
			continue
		}
		if task.DueTime != nil && task.DueTime.Before(cutoff) {
			task.DueTime = nil
		}
		valid = append(valid, task)
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidTasks
	}
	return valid, nil
}

// stripCodeFence removes a ```json fence the model sometimes wraps its answer in.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
