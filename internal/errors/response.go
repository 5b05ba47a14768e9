package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError represents a standardized API error response
type APIError struct {
	StatusCode int    `json:"statusCode"`
	ErrorText  string `json:"error"`
	Message    string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorText:  http.StatusText(statusCode),
		Message:    message,
	}
}

// ToAPIError renders any error as a response body. Unclassified errors become a bare 500.
func ToAPIError(err error) *APIError {
	e, ok := As(err)
	if !ok {
		e = Internal(err)
	}
	return NewAPIError(e.Kind.Status(), e.Message())
}

// Respond writes err and aborts the handler chain.
func Respond(c *gin.Context, err error) {
	apiErr := ToAPIError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
}

// Helper functions for common error responses

// RespondUnauthorized sends a 401 response
func RespondUnauthorized(c *gin.Context, message string) {
	Respond(c, Unauthorized(message))
}

// BadRequest sends a 400 response for a request body that failed schema validation.
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request body"
	}
	Respond(c, MalformedInput("", message))
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	apiErr := NewAPIError(http.StatusServiceUnavailable, message)
	c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
}
