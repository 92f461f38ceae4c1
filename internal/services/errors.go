package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/course-authoring-service/internal/client"
	"github.com/SAP-F-2025/course-authoring-service/internal/coursesync"
	apperrors "github.com/SAP-F-2025/course-authoring-service/internal/errors"
	"github.com/SAP-F-2025/course-authoring-service/internal/ordering"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Authoring specific errors
	ErrDraftNotFound    = errors.New("no draft in progress")
	ErrCourseNotFound   = errors.New("course not found")
	ErrModuleNotFound   = errors.New("module not found in course")
	ErrQuestionNotFound = errors.New("question not found in module quiz")
	ErrOptionNotFound   = errors.New("option not found in question")
	ErrInvalidDirection = errors.New("direction must be up or down")
	ErrUnsupportedFile  = errors.New("unsupported file format")
	ErrUpstreamRejected = errors.New("course API rejected the request")
	ErrUpstreamFailure  = errors.New("course API unreachable")
	ErrCourseNotCreated = coursesync.ErrCourseNotCreated
	ErrReorderDiscarded = ordering.ErrReorderDiscarded
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// upstream translates client errors into service errors, keeping the original
// in the chain.
func upstream(op string, err error) error {
	var serverErr *client.ServerError
	if errors.As(err, &serverErr) {
		switch serverErr.Status {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
		case http.StatusConflict:
			return fmt.Errorf("%s: %w: %w", op, ErrConflict, err)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w: %w", op, ErrUnauthorized, err)
		case http.StatusForbidden:
			return fmt.Errorf("%s: %w: %w", op, ErrForbidden, err)
		}
		return fmt.Errorf("%s: %w: %w", op, ErrUpstreamRejected, err)
	}
	var netErr *client.NetworkError
	if errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %w", op, ErrUpstreamFailure, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDraftNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrModuleNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrOptionNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrInvalidDirection) ||
		errors.Is(err, ErrUnsupportedFile) ||
		errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrCourseNotCreated) {
		return true
	}
	var ves apperrors.ValidationErrors
	if errors.As(err, &ves) {
		return true
	}
	var ve *apperrors.ValidationError
	return errors.As(err, &ve)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrReorderDiscarded)
}

// IsUpstream checks if the course API failed or rejected the call
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstreamRejected) ||
		errors.Is(err, ErrUpstreamFailure)
}

// IsSyncStopped reports a sync that stopped part way and returns the failing step
func IsSyncStopped(err error) (*coursesync.StepError, bool) {
	var stepErr *coursesync.StepError
	ok := errors.As(err, &stepErr)
	return stepErr, ok
}
