// Package faceverify provides an embeddable face verification service: a
// single-table template store plus an HTTP surface for registering,
// verifying, and deleting facial templates.
package faceverify

import (
	"github.com/fanloyalty/faceverify/internal/config"
	"github.com/fanloyalty/faceverify/internal/errortypes"
	"github.com/fanloyalty/faceverify/internal/logger"
	"github.com/fanloyalty/faceverify/internal/recognizer"
	"github.com/fanloyalty/faceverify/internal/server"
	"github.com/fanloyalty/faceverify/internal/templatestore"
)

// Config represents the configuration for the face verification service.
type Config = config.Config

// Server represents the face verification service.
type Server struct {
	config    *config.Config
	store     templatestore.TemplateStore
	extractor recognizer.Extractor
	httpSrv   *server.Server
	logger    *logger.Logger
}

// ServerOptions defines the options for creating a new Server.
type ServerOptions struct {
	Config     *Config        // Pre-filled config. If nil, ConfigPath is used.
	ConfigPath string         // Path to config file. Used if Config is nil. If both are empty, defaults apply.
	Logger     *logger.Logger // External logger. If nil, the default logger is used.
}

// DefaultConfig returns the default service configuration.
func DefaultConfig() *Config {
	return config.NewConfig()
}

// NewServer creates a new face verification Server with the given options.
// If opts.Config is provided, it is used directly; otherwise configuration
// is loaded from opts.ConfigPath, falling back to defaults plus environment.
func NewServer(opts ServerOptions) (*Server, error) {
	log := opts.Logger
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	var cfg *Config
	var err error

	if opts.Config != nil {
		cfg = opts.Config
	} else if opts.ConfigPath != "" {
		cfg, err = config.LoadConfigWithPath(opts.ConfigPath)
		if err != nil {
			return nil, errortypes.ConfigError(err, "failed to load configuration from "+opts.ConfigPath)
		}
	} else {
		cfg, err = config.LoadConfig()
		if err != nil {
			return nil, errortypes.ConfigError(err, "failed to load configuration")
		}
	}

	store, extractor, err := CreateComponents(cfg, log)
	if err != nil {
		return nil, err
	}

	httpSrv := server.New(cfg, store, extractor, log)
	if err := httpSrv.Initialize(); err != nil {
		store.Close()
		extractor.Close()
		return nil, err
	}

	return &Server{
		config:    cfg,
		store:     store,
		extractor: extractor,
		httpSrv:   httpSrv,
		logger:    log,
	}, nil
}

// CreateComponents initializes the template store and the face extractor
// from the configuration.
func CreateComponents(cfg *Config, log *logger.Logger) (templatestore.TemplateStore, recognizer.Extractor, error) {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	store := templatestore.NewSQLiteTemplateStore()
	if err := store.Initialize(cfg.Store.DBPath); err != nil {
		return nil, nil, errortypes.StorageError(err, "failed to initialize template store").
			WithField("db_path", cfg.Store.DBPath)
	}
	log.Info("template store initialized at %s", cfg.Store.DBPath)

	extractor := recognizer.NewDlibExtractor(cfg.Recognition.ModelsDir)
	if err := extractor.Initialize(); err != nil {
		store.Close()
		return nil, nil, errortypes.ExtractionError(err, "failed to initialize face extractor").
			WithField("models_dir", cfg.Recognition.ModelsDir)
	}
	log.Info("face extractor initialized from %s", cfg.Recognition.ModelsDir)

	return store, extractor, nil
}

// Config returns the active configuration.
func (s *Server) Config() *Config {
	return s.config
}

// Start begins serving HTTP requests. It blocks until the server stops.
func (s *Server) Start() error {
	return s.httpSrv.Listen()
}

// Close shuts the HTTP server down and releases the store and extractor.
func (s *Server) Close() error {
	err := s.httpSrv.Shutdown()
	if cerr := s.store.Close(); err == nil {
		err = cerr
	}
	if cerr := s.extractor.Close(); err == nil {
		err = cerr
	}
	return err
}
