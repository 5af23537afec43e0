package errortypes

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fanloyalty/faceverify/internal/logger"
)

func TestErrorKinds(t *testing.T) {
	baseErr := errors.New("base error")

	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
	}{
		{"validation", ValidationError(baseErr, "invalid input"), ErrorTypeValidation},
		{"not found", NotFoundError(baseErr, "missing template"), ErrorTypeNotFound},
		{"decode", DecodeError(baseErr, "bad image"), ErrorTypeDecode},
		{"extraction", ExtractionError(baseErr, "extractor blew up"), ErrorTypeExtraction},
		{"storage", StorageError(baseErr, "db down"), ErrorTypeStorage},
		{"config", ConfigError(baseErr, "bad config"), ErrorTypeConfig},
		{"internal", InternalError(baseErr, "unexpected"), ErrorTypeInternal},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.err.Type != test.wantType {
				t.Errorf("Expected type %s, got %s", test.wantType, test.err.Type)
			}
			if TypeOf(test.err) != test.wantType {
				t.Errorf("TypeOf() = %s, want %s", TypeOf(test.err), test.wantType)
			}
			if !errors.Is(test.err, baseErr) {
				t.Error("Expected errors.Is to find the wrapped base error")
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	appErr := ValidationError(errors.New("base error"), "validation failed")
	if !strings.Contains(appErr.Error(), "validation failed") ||
		!strings.Contains(appErr.Error(), "base error") {
		t.Errorf("Error message incorrect: %s", appErr.Error())
	}

	// An AppError may have a message and no wrapped error
	bare := ValidationError(nil, "fan_id is required")
	if bare.Error() != "fan_id is required" {
		t.Errorf("Expected bare message, got: %s", bare.Error())
	}
}

func TestTypeOfWrappedError(t *testing.T) {
	appErr := NotFoundError(errors.New("no row"), "template missing")
	wrapped := fmt.Errorf("while verifying: %w", appErr)

	if TypeOf(wrapped) != ErrorTypeNotFound {
		t.Errorf("TypeOf(wrapped) = %s, want %s", TypeOf(wrapped), ErrorTypeNotFound)
	}
	if !IsNotFoundError(wrapped) {
		t.Error("Expected IsNotFoundError to see through wrapping")
	}
}

func TestTypeOfPlainError(t *testing.T) {
	if TypeOf(errors.New("plain")) != ErrorTypeInternal {
		t.Error("Expected plain errors to be classified as internal")
	}
	if IsValidationError(errors.New("plain")) {
		t.Error("Expected plain error not to be a validation error")
	}
}

func TestWithField(t *testing.T) {
	appErr := StorageError(errors.New("db down"), "save failed").
		WithField("fan_id", "abc-123")

	if appErr.Fields["fan_id"] != "abc-123" {
		t.Errorf("Expected fan_id field, got %v", appErr.Fields)
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&logger.Config{
		Level:  logger.DEBUG,
		Format: logger.TEXT,
		Output: &buf,
	})

	LogError(log, StorageError(errors.New("disk full"), "save failed").WithField("fan_id", "abc"))

	out := buf.String()
	if !strings.Contains(out, "save failed") ||
		!strings.Contains(out, "type=storage") ||
		!strings.Contains(out, "fan_id=abc") {
		t.Errorf("Unexpected log output: %s", out)
	}

	buf.Reset()
	LogError(log, errors.New("plain failure"))
	if !strings.Contains(buf.String(), "plain failure") {
		t.Errorf("Expected plain error to be logged, got: %s", buf.String())
	}
}
