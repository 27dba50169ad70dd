package errors

import (
	goerrors "errors"
	"fmt"
)

// Kind classifies pipeline failures so the orchestrator and the HTTP layer
// can decide between client-input, permanent and transient errors.
type Kind string

const (
	KindInvalidURL          Kind = "invalid_url"
	KindUnsupportedPlatform Kind = "unsupported_platform"
	KindUnavailable         Kind = "unavailable"
	KindRateLimited         Kind = "rate_limited"
	KindExtractionFailed    Kind = "extraction_failed"
	KindDownloadFailed      Kind = "download_failed"
	KindNoAudioStream       Kind = "no_audio_stream"
	KindConversionFailed    Kind = "conversion_failed"
	KindUploadFailed        Kind = "upload_failed"
	KindMalformedResponse   Kind = "malformed_service_response"
	KindExternalService     Kind = "external_service_failure"
	KindNotARecipe          Kind = "not_a_recipe"
	KindInternal            Kind = "internal"
)

// Error is the standardized pipeline error carrying a Kind and an optional cause.
type Error struct {
	kind    Kind
	message string
	cause   error
}

// New creates a new error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Newf creates a new formatted error of the given kind.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context, preserving the cause chain.
func Wrap(kind Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, message: message, cause: err}
}

// Wrapf wraps an error with formatted context.
func Wrapf(kind Kind, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, message: fmt.Sprintf(format, args...), cause: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the error classification.
func (e *Error) Kind() Kind {
	return e.kind
}

// Is matches errors by kind so callers can compare against sentinel kinds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.kind == t.kind
}

// KindOf extracts the Kind from an error chain, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if goerrors.As(err, &e) {
		return e.kind
	}
	return KindInternal
}

// IsClientError reports whether the error is caused by bad client input and
// should never be retried.
func IsClientError(err error) bool {
	switch KindOf(err) {
	case KindInvalidURL, KindUnsupportedPlatform, KindNotARecipe:
		return true
	}
	return false
}

// IsRetryable reports whether resubmitting the same URL later could succeed.
// The orchestrator itself never retries; this informs callers only.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindRateLimited, KindExternalService, KindDownloadFailed:
		return true
	}
	return false
}
