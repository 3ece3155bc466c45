package utils

import (
	"errors"
	"net/http"
)

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons.
var (
	ErrHandbookNotFound     = errors.New("handbook_not_found")
	ErrVersionNotFound      = errors.New("version_not_found")
	ErrElementNotFound      = errors.New("element_not_found")
	ErrAmbiguousVersion     = errors.New("ambiguous_version")
	ErrUnknownVersionLabels = errors.New("unknown_version_labels")
	ErrForeignKeyViolation  = errors.New("foreign_key_violation")

	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")
)

// AppError carries an HTTP status and public error code from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Details    any
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewBadRequest(code, message string, details any, err error) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Code: code, Message: message, Details: details, Err: err}
}

func NewNotFound(message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Code: ErrCodeNotFound, Message: message, Err: err}
}

func NewConflict(code, message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusConflict, Code: code, Message: message, Err: err}
}

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, appErr.Details, appErr.Err)
	} else {
		// Fallback for unexpected error types
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
