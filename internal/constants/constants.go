package constants

import "time"

// Context keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyToken  = "auth_token"
)

// Session
const (
	SessionCookieName = "collabridge_session"
	SessionMaxAge     = 86400 * 7
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Users
const (
	MinPasswordLength      = 6
	UsernameChangeCooldown = 30 * 24 * time.Hour
)

// Tasks
const (
	// DragSentinelOrder places a task at the end of a column while it is being dragged.
	DragSentinelOrder = 9999
)
