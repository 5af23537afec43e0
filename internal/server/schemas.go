package server

import (
	"github.com/fanloyalty/faceverify/internal/errortypes"
)

// Service identity returned by the health endpoint.
const (
	ServiceName    = "facial-recognition-service"
	ServiceVersion = "1.0.0"
)

// RegisterRequest defines the input schema for the register endpoint
type RegisterRequest struct {
	// FanID is the caller-supplied identifier to enroll
	FanID string `json:"fan_id"`

	// Image is the base64-encoded enrollment image
	Image string `json:"image"`
}

// Validate checks the required request fields
func (r *RegisterRequest) Validate() error {
	if r.FanID == "" {
		return errortypes.ValidationError(nil, "fan_id is required")
	}
	if r.Image == "" {
		return errortypes.ValidationError(nil, "image is required")
	}
	return nil
}

// VerifyRequest defines the input schema for the verify endpoint
type VerifyRequest struct {
	// FanID is the identifier whose stored template is compared against
	FanID string `json:"fan_id"`

	// Image is the base64-encoded probe image
	Image string `json:"image"`
}

// Validate checks the required request fields
func (r *VerifyRequest) Validate() error {
	if r.FanID == "" {
		return errortypes.ValidationError(nil, "fan_id is required")
	}
	if r.Image == "" {
		return errortypes.ValidationError(nil, "image is required")
	}
	return nil
}

// RegisterResponse defines the output schema for the register endpoint
type RegisterResponse struct {
	Success bool   `json:"success"`
	FanID   string `json:"fan_id"`
	Message string `json:"message"`
}

// VerifyResponse defines the output schema for the verify endpoint.
// A probe with no detectable face is a successful no-match with maximal
// distance, not an error; Message carries the explanation in that case.
type VerifyResponse struct {
	Success         bool    `json:"success"`
	FanID           string  `json:"fan_id"`
	ConfidenceScore float64 `json:"confidence_score"`
	IsMatch         bool    `json:"is_match"`
	Distance        float64 `json:"distance"`
	Threshold       float64 `json:"threshold"`
	Message         string  `json:"message,omitempty"`
}

// DeleteResponse defines the output schema for the delete endpoint
type DeleteResponse struct {
	Success bool   `json:"success"`
	FanID   string `json:"fan_id"`
	Message string `json:"message"`
}

// HealthResponse defines the output schema for the health endpoint
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}
