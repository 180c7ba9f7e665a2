package constants

// Session / context keys
const (
	ContextKeyWorkerID = "worker_id"
	ContextKeyIsAdmin  = "is_admin"
	SessionName        = "crew_session"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Scheduling
const (
	// WorkdayHours is the nominal workday; a worker-day cell above this is overloaded.
	WorkdayHours = 8.0

	// WorkingDays is the number of visible calendar columns (Mon-Fri).
	WorkingDays = 5
)

// Messaging
const (
	// MaxNotificationBodyLen caps the message preview carried in a notification.
	MaxNotificationBodyLen = 100
)

// Auth
const (
	PINLength         = 4
	MinPasswordLength = 8
)
