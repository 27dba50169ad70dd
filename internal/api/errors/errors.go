// Package errors defines the structured error responses of the HTTP API and
// the mapping from pipeline failures to HTTP status codes.
package errors

import (
	"fmt"
	"net/http"

	apperrors "reelscribe/internal/app/errors"
)

// ErrorKind classifies API errors for clients.
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindBadRequest         ErrorKind = "bad_request"
	KindNotFound           ErrorKind = "not_found"
	KindTooManyRequests    ErrorKind = "too_many_requests"
	KindBadGateway         ErrorKind = "bad_gateway"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindInternal           ErrorKind = "internal"
)

// APIError is the JSON error body every failing endpoint returns.
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the status code for the error kind.
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	case KindBadGateway:
		return http.StatusBadGateway
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with per-field details.
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{Kind: KindValidation, Message: message, Details: fields}
}

func NewBadRequestError(message string) *APIError {
	return &APIError{Kind: KindBadRequest, Message: message}
}

func NewNotFoundError(resource string) *APIError {
	return &APIError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func NewInternalError(message string) *APIError {
	return &APIError{Kind: KindInternal, Message: message}
}

// FromPipelineError maps a pipeline failure onto an API error. Client-input
// failures keep their message; internal failures are replaced with a generic
// message so internals do not leak.
func FromPipelineError(err error) *APIError {
	if err == nil {
		return nil
	}
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}

	switch apperrors.KindOf(err) {
	case apperrors.KindInvalidURL, apperrors.KindUnsupportedPlatform, apperrors.KindNotARecipe:
		return &APIError{Kind: KindBadRequest, Message: err.Error()}
	case apperrors.KindUnavailable:
		return &APIError{Kind: KindNotFound, Message: err.Error()}
	case apperrors.KindRateLimited:
		return &APIError{Kind: KindTooManyRequests, Message: err.Error()}
	case apperrors.KindExternalService, apperrors.KindMalformedResponse,
		apperrors.KindExtractionFailed, apperrors.KindDownloadFailed:
		return &APIError{Kind: KindBadGateway, Message: err.Error()}
	default:
		return &APIError{Kind: KindInternal, Message: "internal server error"}
	}
}
