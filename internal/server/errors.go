package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/fanloyalty/faceverify/internal/errortypes"
)

// statusForError maps an error to an HTTP status code. The error kind set
// is closed; anything outside it is an internal failure.
func statusForError(err error) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	switch errortypes.TypeOf(err) {
	case errortypes.ErrorTypeValidation, errortypes.ErrorTypeDecode:
		return fiber.StatusBadRequest
	case errortypes.ErrorTypeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// errorHandler turns handler errors into JSON error responses. The raw
// error text is included in the body, 500s too; that mirrors the historical
// behavior of this service and is a known diagnostic/information-leak
// trade-off.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := statusForError(err)

	if status >= fiber.StatusInternalServerError {
		errortypes.LogError(s.log, err)
	} else {
		s.log.Debug("request rejected: %v", err)
	}

	return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
}
