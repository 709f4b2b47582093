package apperr

// Error is a request-mappable error. Services return these sentinels (or wrap
// them) and the fiber error handler translates the status code and message into
// the response envelope without leaking internals.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New builds an Error with an explicit status code.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Authentication failures (401). InvalidCredentials is deliberately shared
// between "email not found" and "password mismatch" to avoid user enumeration.
var (
	ErrUnauthorized       = New(401, "unauthorized")
	ErrInvalidCredentials = New(401, "invalid credentials")
	ErrInvalidToken       = New(401, "invalid token")
	ErrTokenExpired       = New(401, "token expired")
)

// Authorization failures (403).
var (
	ErrForbidden      = New(403, "insufficient permissions")
	ErrAccountRemoved = New(403, "account has been removed")
)

// Bad addressing (400).
var (
	ErrBadRequest    = New(400, "bad request")
	ErrMissingItemID = New(400, "item id is required")
)

// Missing records (404).
var (
	ErrNotFound            = New(404, "not found")
	ErrAccountNotFound     = New(404, "account not found")
	ErrRoleNotFound        = New(404, "role not found")
	ErrPermissionsNotFound = New(404, "one or more permissions not found")
	ErrGrantNotFound       = New(404, "grant not found")
	ErrPermissionNotOnRole = New(404, "permission is not assigned to the role")
)

// Conflicts (409).
var (
	ErrEmailTaken                = New(409, "email or username already in use")
	ErrRoleExists                = New(409, "role already exists")
	ErrPermissionExists          = New(409, "permission already exists")
	ErrAlreadyLoggedIn           = New(409, "an active session already exists for this account")
	ErrAlreadyGranted            = New(409, "permission already granted")
	ErrPermissionAlreadyOnRole   = New(409, "permission already assigned to the role")
	ErrCannotModifyAbsoluteGrant = New(409, "absolute grants cannot be modified item by item")
)

// Infrastructure (5xx). ErrIntegrity marks a dangling role or permission
// reference discovered at read time.
var (
	ErrUpstreamFailure = New(502, "upstream dependency failed")
	ErrIntegrity       = New(500, "data integrity error")
)
