package usercontext

// Session and request-local keys shared between the session middleware and
// handlers.
const (
	KeyUserContext   = "USER_CONTEXT"
	KeyFromProtected = "FROM_PROTECTED"
	SessionKeyUserID = "USER_ID"
	SessionKeyName   = "USER_NAME"
)
