package constants

const (
	// ContextKeyUserID is the key for the authenticated user ID in both the session and the gin context.
	ContextKeyUserID = "user_id"
	// ContextKeyUserEmail holds the email carried by a bearer token.
	ContextKeyUserEmail = "user_email"

	SessionCookieName = "event_task_session"

	MinPasswordLength = 8
	BcryptCost        = 12

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	MaxSuggestedTasks = 20
)
