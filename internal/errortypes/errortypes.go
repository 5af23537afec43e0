// Package errortypes provides the error taxonomy for the face verification
// service. Every failure surfaced by a handler is one of a small closed set
// of kinds; the HTTP boundary maps kinds to status codes.
package errortypes

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/fanloyalty/faceverify/internal/logger"
)

// ErrorType represents the kind of error that occurred
type ErrorType string

// Error kinds
const (
	// ErrorTypeValidation indicates invalid client input, such as a missing
	// required field or the wrong number of faces in an image.
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeNotFound indicates a fan_id with no stored template.
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeDecode indicates an undecodable image payload.
	ErrorTypeDecode ErrorType = "decode"

	// ErrorTypeExtraction indicates a failure inside the face recognition
	// library.
	ErrorTypeExtraction ErrorType = "extraction"

	// ErrorTypeStorage indicates a template store failure.
	ErrorTypeStorage ErrorType = "storage"

	// ErrorTypeConfig indicates a configuration error.
	ErrorTypeConfig ErrorType = "config"

	// ErrorTypeInternal indicates an unexpected internal error.
	ErrorTypeInternal ErrorType = "internal"
)

// AppError represents an application error with context
type AppError struct {
	Err       error
	Type      ErrorType
	Message   string
	StackInfo string
	Fields    map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap unwraps the error to support errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithField adds a field to the error for additional context
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// WithFields adds multiple fields to the error for additional context
func (e *AppError) WithFields(fields map[string]interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	for k, v := range fields {
		e.Fields[k] = v
	}
	return e
}

// captureStack captures the stack trace at the call site
func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		// Skip testing and standard library frames
		if !strings.Contains(frame.File, "testing/") && !strings.Contains(frame.File, "/go/src/") {
			fmt.Fprintf(&builder, "%s:%d %s\n", frame.File, frame.Line, frame.Function)
		}
		if !more {
			break
		}
	}
	return builder.String()
}

// newAppError creates a new AppError with the given kind, underlying error, and message
func newAppError(errType ErrorType, err error, message string) *AppError {
	return &AppError{
		Err:       err,
		Type:      errType,
		Message:   message,
		StackInfo: captureStack(),
		Fields:    make(map[string]interface{}),
	}
}

// ValidationError creates a new validation error
func ValidationError(err error, message string) *AppError {
	return newAppError(ErrorTypeValidation, err, message)
}

// NotFoundError creates a new not-found error
func NotFoundError(err error, message string) *AppError {
	return newAppError(ErrorTypeNotFound, err, message)
}

// DecodeError creates a new image decode error
func DecodeError(err error, message string) *AppError {
	return newAppError(ErrorTypeDecode, err, message)
}

// ExtractionError creates a new extractor error
func ExtractionError(err error, message string) *AppError {
	return newAppError(ErrorTypeExtraction, err, message)
}

// StorageError creates a new storage error
func StorageError(err error, message string) *AppError {
	return newAppError(ErrorTypeStorage, err, message)
}

// ConfigError creates a new configuration error
func ConfigError(err error, message string) *AppError {
	return newAppError(ErrorTypeConfig, err, message)
}

// InternalError creates a new internal error
func InternalError(err error, message string) *AppError {
	return newAppError(ErrorTypeInternal, err, message)
}

// TypeOf returns the kind of err, or ErrorTypeInternal for errors that are
// not an AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsType checks whether err is an AppError of the given kind
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not-found error
func IsNotFoundError(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsStorageError checks if an error is a storage error
func IsStorageError(err error) bool {
	return IsType(err, ErrorTypeStorage)
}

// LogError logs an AppError using the provided logger or the default logger.
// It logs the error message, kind, stack trace, and any associated fields.
func LogError(log *logger.Logger, err error) {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		fields := map[string]interface{}{
			"type": string(appErr.Type),
		}
		if appErr.Err != nil {
			fields["original_error"] = appErr.Err.Error()
		}
		if appErr.StackInfo != "" {
			fields["stack"] = appErr.StackInfo
		}
		for k, v := range appErr.Fields {
			fields[k] = v
		}
		log.WithFields(fields).Error(appErr.Message)
	} else {
		log.WithField("error", err.Error()).Error("unexpected error")
	}
}
