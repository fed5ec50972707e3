// internal/web/server.go
package web

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	apperrors "listing-predictor/internal/common/errors"
	"listing-predictor/internal/common/logger"
	"listing-predictor/internal/common/validation"
	predictsale "listing-predictor/internal/listing/predict-sale"
	"listing-predictor/pkg/artifact"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html
var templateFS embed.FS

// Predictor runs one prediction request.
type Predictor interface {
	Execute(ctx context.Context, input *predictsale.Input) (*predictsale.Output, error)
}

type Options struct {
	Predictor   Predictor
	Table       *artifact.CoefficientTable
	CORSOrigins []string
	// Ready reports whether the service can take traffic. Nil means always.
	Ready  func() bool
	Logger logger.Logger
}

type Server struct {
	predictor   Predictor
	table       *artifact.CoefficientTable
	chart       *Chart
	pages       *template.Template
	validator   *validation.Validator
	errors      *apperrors.ErrorHandler
	corsOrigins []string
	ready       func() bool
	logger      logger.Logger
}

func NewServer(opts Options) (*Server, error) {
	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	validator, err := validation.NewValidator(validation.PredictRequestSchema)
	if err != nil {
		return nil, err
	}

	ready := opts.Ready
	if ready == nil {
		ready = func() bool { return true }
	}

	return &Server{
		predictor:   opts.Predictor,
		table:       opts.Table,
		chart:       BuildChart(opts.Table),
		pages:       pages,
		validator:   validator,
		errors:      apperrors.NewErrorHandler(opts.Logger),
		corsOrigins: opts.CORSOrigins,
		ready:       ready,
		logger:      opts.Logger,
	}, nil
}

// Router wires the page, the JSON API and the operational endpoints.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(s.logger))
	if len(s.corsOrigins) > 0 {
		router.Use(cors.New(corsConfig(s.corsOrigins)))
	}

	router.GET("/", s.index)
	router.POST("/predict", s.predictForm)

	router.GET("/health", s.health)
	router.GET("/ready", s.readiness)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/predict", s.predictAPI)
		api.GET("/coefficients", s.coefficients)
		api.GET("/features", s.features)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) readiness(c *gin.Context) {
	if !s.ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
