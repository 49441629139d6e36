package contextkeys

type contextKey string

const (
	UserIDKey    contextKey = "UserID"
	RoleIDKey    contextKey = "RoleID"
	CompanyIDKey contextKey = "CompanyID"
	SessionKey   contextKey = "Session"
	RequestIDKey contextKey = "RequestID"
)
