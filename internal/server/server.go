// Package server exposes the face verification operations over HTTP.
// Each operation is a stateless request against the template store; the
// face recognition work is delegated entirely to the extractor.
package server

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/fanloyalty/faceverify/internal/config"
	"github.com/fanloyalty/faceverify/internal/errortypes"
	"github.com/fanloyalty/faceverify/internal/imaging"
	"github.com/fanloyalty/faceverify/internal/logger"
	"github.com/fanloyalty/faceverify/internal/recognizer"
	"github.com/fanloyalty/faceverify/internal/telemetry"
	"github.com/fanloyalty/faceverify/internal/templatestore"
	"github.com/fanloyalty/faceverify/internal/vector"
)

// Server wires the template store and the extractor into the HTTP routes.
type Server struct {
	cfg       *config.Config
	store     templatestore.TemplateStore
	extractor recognizer.Extractor
	metrics   *telemetry.MetricsCollector
	log       *logger.Logger
	app       *fiber.App
}

// New creates a new Server. The configuration is injected, never read from
// ambient state.
func New(cfg *config.Config, store templatestore.TemplateStore, extractor recognizer.Extractor, log *logger.Logger) *Server {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &Server{
		cfg:       cfg,
		store:     store,
		extractor: extractor,
		metrics:   telemetry.NewMetricsCollector(),
		log:       log.WithField("component", "server"),
	}
}

// Initialize builds the fiber application and registers the routes.
func (s *Server) Initialize() error {
	if s.cfg == nil {
		return errortypes.ConfigError(nil, "server configuration is required")
	}

	app := fiber.New(fiber.Config{
		AppName:      ServiceName,
		ErrorHandler: s.errorHandler,
	})

	app.Use(cors.New())
	if s.cfg.Server.Debug {
		app.Use(fiberlogger.New())
	}

	app.Get("/health", s.handleHealth)
	app.Get("/metrics", s.handleMetrics)
	app.Post("/register", s.handleRegister)
	app.Post("/verify", s.handleVerify)
	app.Delete("/delete/:fan_id", s.handleDelete)

	s.app = app
	return nil
}

// App returns the underlying fiber application, mainly for tests and for
// embedding the service into another process.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving on the configured port. It blocks until the app is
// shut down.
func (s *Server) Listen() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.log.Info("listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown() error {
	if s.app == nil {
		return nil
	}
	return s.app.Shutdown()
}

// handleHealth returns static service metadata. No state is inspected.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Version: ServiceVersion,
	})
}

// handleMetrics returns a plain-text report of the collected metrics.
func (s *Server) handleMetrics(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(s.metrics.GetReport())
}

// handleRegister enrolls a facial template. An ambiguous enrollment image
// (zero or multiple faces) is always an error, never silently resolved.
func (s *Server) handleRegister(c *fiber.Ctx) error {
	start := time.Now()
	defer func() { s.metrics.RecordTimer(telemetry.MetricRegisterTime, time.Since(start)) }()

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		s.metrics.IncrementCounter(telemetry.MetricRegisterFailure, 1)
		return errortypes.ValidationError(err, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		s.metrics.IncrementCounter(telemetry.MetricRegisterFailure, 1)
		return err
	}

	descriptor, err := s.extractSingleFace(req.Image)
	if err != nil {
		s.metrics.IncrementCounter(telemetry.MetricRegisterFailure, 1)
		return err
	}

	encoding, err := vector.EncodeEmbedding(descriptor)
	if err != nil {
		s.metrics.IncrementCounter(telemetry.MetricRegisterFailure, 1)
		return errortypes.InternalError(err, "failed to encode face template")
	}

	if err := s.store.Save(c.UserContext(), req.FanID, encoding, time.Now().UTC()); err != nil {
		s.metrics.IncrementCounter(telemetry.MetricRegisterFailure, 1)
		return errortypes.StorageError(err, "failed to store face template").
			WithField("fan_id", req.FanID)
	}

	s.metrics.IncrementCounter(telemetry.MetricRegisterSuccess, 1)
	s.metrics.RecordTimestamp(telemetry.MetricLastRegister)
	s.log.Info("registered face template for %s", req.FanID)

	return c.JSON(RegisterResponse{
		Success: true,
		FanID:   req.FanID,
		Message: "Face template registered successfully",
	})
}

// handleVerify compares a probe image 1:1 against the stored template for
// the claimed fan_id. There is no fallback matching against other
// identifiers.
func (s *Server) handleVerify(c *fiber.Ctx) error {
	start := time.Now()
	defer func() { s.metrics.RecordTimer(telemetry.MetricVerifyTime, time.Since(start)) }()

	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		s.metrics.IncrementCounter(telemetry.MetricVerifyFailure, 1)
		return errortypes.ValidationError(err, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		s.metrics.IncrementCounter(telemetry.MetricVerifyFailure, 1)
		return err
	}

	tmpl, err := s.store.Get(c.UserContext(), req.FanID)
	if err != nil {
		s.metrics.IncrementCounter(telemetry.MetricVerifyFailure, 1)
		if err == templatestore.ErrTemplateNotFound {
			return errortypes.NotFoundError(err, "Face not registered for this fan_id")
		}
		return errortypes.StorageError(err, "failed to load face template").
			WithField("fan_id", req.FanID)
	}

	stored, err := vector.DecodeEmbedding(tmpl.Encoding)
	if err != nil {
		s.metrics.IncrementCounter(telemetry.MetricVerifyFailure, 1)
		return errortypes.StorageError(err, "stored face template is unreadable").
			WithField("fan_id", req.FanID)
	}

	threshold := s.cfg.Recognition.SimilarityThreshold

	descriptors, err := s.extractFaces(req.Image)
	if err != nil {
		s.metrics.IncrementCounter(telemetry.MetricVerifyFailure, 1)
		return err
	}

	// A probe with no detectable face is a successful no-match, unlike in
	// registration.
	if len(descriptors) == 0 {
		s.metrics.IncrementCounter(telemetry.MetricVerifyNoFace, 1)
		s.metrics.RecordTimestamp(telemetry.MetricLastVerify)
		return c.JSON(VerifyResponse{
			Success:         true,
			FanID:           req.FanID,
			ConfidenceScore: 0.0,
			IsMatch:         false,
			Distance:        1.0,
			Threshold:       threshold,
			Message:         "No face detected in image",
		})
	}
	if len(descriptors) > 1 {
		s.metrics.IncrementCounter(telemetry.MetricVerifyFailure, 1)
		return errortypes.ValidationError(nil, "Multiple faces detected. Please provide image with single face")
	}

	distance, err := vector.Distance(stored, descriptors[0])
	if err != nil {
		s.metrics.IncrementCounter(telemetry.MetricVerifyFailure, 1)
		return errortypes.InternalError(err, "failed to compare face embeddings").
			WithField("fan_id", req.FanID)
	}

	isMatch := distance < threshold
	confidence := vector.Confidence(distance, threshold)

	if isMatch {
		s.metrics.IncrementCounter(telemetry.MetricVerifyMatch, 1)
	} else {
		s.metrics.IncrementCounter(telemetry.MetricVerifyNoMatch, 1)
	}
	s.metrics.RecordTimestamp(telemetry.MetricLastVerify)
	s.log.Debug("verified %s: distance=%.4f threshold=%.4f match=%t", req.FanID, distance, threshold, isMatch)

	return c.JSON(VerifyResponse{
		Success:         true,
		FanID:           req.FanID,
		ConfidenceScore: confidence,
		IsMatch:         isMatch,
		Distance:        distance,
		Threshold:       threshold,
	})
}

// handleDelete removes the stored template for the fan_id path parameter.
// Deleting an absent template reports not-found, including right after a
// successful delete.
func (s *Server) handleDelete(c *fiber.Ctx) error {
	start := time.Now()
	defer func() { s.metrics.RecordTimer(telemetry.MetricDeleteTime, time.Since(start)) }()

	fanID := c.Params("fan_id")
	if fanID == "" {
		s.metrics.IncrementCounter(telemetry.MetricDeleteFailure, 1)
		return errortypes.ValidationError(nil, "fan_id is required")
	}

	if err := s.store.Delete(c.UserContext(), fanID); err != nil {
		s.metrics.IncrementCounter(telemetry.MetricDeleteFailure, 1)
		if err == templatestore.ErrTemplateNotFound {
			return errortypes.NotFoundError(err, "Face template not found")
		}
		return errortypes.StorageError(err, "failed to delete face template").
			WithField("fan_id", fanID)
	}

	s.metrics.IncrementCounter(telemetry.MetricDeleteSuccess, 1)
	s.log.Info("deleted face template for %s", fanID)

	return c.JSON(DeleteResponse{
		Success: true,
		FanID:   fanID,
		Message: "Face template deleted successfully",
	})
}

// extractSingleFace decodes the payload and requires exactly one face.
func (s *Server) extractSingleFace(payload string) ([]float32, error) {
	descriptors, err := s.extractFaces(payload)
	if err != nil {
		return nil, err
	}
	if len(descriptors) == 0 {
		return nil, errortypes.ValidationError(nil, "No face detected in image")
	}
	if len(descriptors) > 1 {
		return nil, errortypes.ValidationError(nil, "Multiple faces detected. Please provide image with single face")
	}
	return descriptors[0], nil
}

// extractFaces decodes the base64 payload, normalizes it to JPEG, and runs
// the extractor.
func (s *Server) extractFaces(payload string) ([][]float32, error) {
	raw, err := imaging.DecodeBase64(payload)
	if err != nil {
		return nil, errortypes.DecodeError(err, "invalid image format")
	}

	jpegData, err := imaging.NormalizeJPEG(raw)
	if err != nil {
		return nil, errortypes.DecodeError(err, "invalid image format")
	}

	descriptors, err := s.extractor.Extract(jpegData)
	if err != nil {
		return nil, errortypes.ExtractionError(err, "face extraction failed")
	}
	return descriptors, nil
}
