package errors

import (
	"fmt"
	"net/http"
)

var (
	// JWT
	ErrInvalidSigningMethod = fmt.Errorf("unexpected token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token expired")
	ErrTokenNotYetValid     = fmt.Errorf("token not valid yet")
	ErrTokenIsNotRefresh    = fmt.Errorf("token is not a refresh token")

	// Auth
	ErrEmptyAuthHeader    = fmt.Errorf("authorization header is missing")
	ErrInvalidAuthHeader  = fmt.Errorf("malformed authorization header")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUserDisabled       = fmt.Errorf("user is disabled")
	ErrAccountLocked      = fmt.Errorf("too many failed sign-in attempts, try again later")
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrForbidden          = fmt.Errorf("access denied")
	ErrFeatureUnavailable = fmt.Errorf("feature not included in the subscription plan")

	// Context
	ErrUserIDNotFoundInContext  = fmt.Errorf("user id not found in request context")
	ErrSessionNotFoundInContext = fmt.Errorf("session not found in request context")
	ErrInvalidUserID            = fmt.Errorf("invalid user id")

	// Common
	ErrNotFound      = fmt.Errorf("record not found")
	ErrBadRequest    = fmt.Errorf("bad request")
	ErrUnknownEntity = fmt.Errorf("unknown entity")
	ErrInvalidPage   = fmt.Errorf("invalid page size")
)

// HttpError is an error that already knows its response status and the
// message the client may see. Err keeps the cause for logs.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, ctx map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: ctx}
}

func NewBadRequestError(message string) *HttpError {
	return &HttpError{Code: http.StatusBadRequest, Message: message, Err: ErrBadRequest}
}

type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
