package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/papershelf/papershelf/pkg/answer"
	"github.com/papershelf/papershelf/pkg/extract"
	"github.com/papershelf/papershelf/pkg/store"
)

// Server is the API server for uploading documents and querying them.
type Server struct {
	config     Config
	store      *store.Store
	extractors map[string]extract.Extractor
	answers    *answer.Service
	logger     *zap.Logger
	app        *fiber.App
}

// NewServer creates a new API server. Extractors are keyed by lowercase
// file extension including the dot (e.g. ".pdf"). The store and the
// answer service are injected to allow sharing with the CLI commands.
func NewServer(config Config, st *store.Store, extractors map[string]extract.Extractor, answers *answer.Service, logger *zap.Logger) *Server {
	if answers == nil {
		answers = answer.NewService(nil, logger)
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	if config.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     config.AllowOrigins,
			AllowCredentials: true,
		}))
	}

	s := &Server{
		config:     config,
		store:      st,
		extractors: extractors,
		answers:    answers,
		logger:     logger,
		app:        app,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/upload", s.handleUpload)
	app.Get("/document/:id", s.handleDocument)
	app.Get("/query/:id", s.handleQuery)
	app.Get("/summary/:id", s.handleSummary)
	app.Get("/abstract/:id", s.handleAbstract)
	app.Get("/approach/:id", s.handleApproach)
	app.Get("/keywords/:id", s.handleKeywords)
	app.Get("/results/:id", s.handleResults)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
