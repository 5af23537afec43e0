package server

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/fanloyalty/faceverify/internal/errortypes"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation error",
			err:        errortypes.ValidationError(nil, "fan_id is required"),
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "decode error",
			err:        errortypes.DecodeError(errors.New("bad png"), "invalid image format"),
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "not found error",
			err:        errortypes.NotFoundError(nil, "Face template not found"),
			wantStatus: fiber.StatusNotFound,
		},
		{
			name:       "extraction error",
			err:        errortypes.ExtractionError(errors.New("model crashed"), "face extraction failed"),
			wantStatus: fiber.StatusInternalServerError,
		},
		{
			name:       "storage error",
			err:        errortypes.StorageError(errors.New("db locked"), "failed to store"),
			wantStatus: fiber.StatusInternalServerError,
		},
		{
			name:       "plain error",
			err:        errors.New("something broke"),
			wantStatus: fiber.StatusInternalServerError,
		},
		{
			name:       "fiber error keeps its code",
			err:        fiber.ErrMethodNotAllowed,
			wantStatus: fiber.StatusMethodNotAllowed,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := statusForError(test.err); got != test.wantStatus {
				t.Errorf("statusForError() = %d, want %d", got, test.wantStatus)
			}
		})
	}
}
