package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrTaskNotFound is returned when a task id does not exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrUserNotFound is returned when a user id or email does not exist.
	ErrUserNotFound = errors.New("user does not exist")
	// ErrCategoryNotFound is returned when a category id does not exist.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrSubTaskNotFound is returned when a referenced subtask id does not exist.
	ErrSubTaskNotFound = errors.New("subtask not found")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrCategoryExists is returned when a category name is already taken.
	ErrCategoryExists = errors.New("category already exists")
	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrInvalidCredentials is returned on a wrong password.
	ErrInvalidCredentials = errors.New("wrong username or password")
	// ErrInactiveAccount is returned when the account is not activated.
	ErrInactiveAccount = errors.New("user is not active")
	// ErrInvalidToken is returned when the bearer token is missing or unknown.
	ErrInvalidToken = errors.New("invalid or missing token")
	// ErrForbidden is returned when the requester lacks the required role.
	ErrForbidden = errors.New("permission denied")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TASK_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrCategoryNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CATEGORY_NOT_FOUND")
	case errors.Is(err, ErrSubTaskNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "SUBTASK_NOT_FOUND")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrCategoryExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "CATEGORY_EXISTS")
	case errors.Is(err, ErrPasswordMismatch):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "PASSWORD_MISMATCH")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInactiveAccount):
		return NewHTTPError(http.StatusForbidden, err.Error(), "INACTIVE_ACCOUNT")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
