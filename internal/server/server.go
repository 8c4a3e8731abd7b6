// Package server exposes the verification desk as a local JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/josephgoksu/veritas/internal/detector"
	"github.com/josephgoksu/veritas/models"
)

// Detector is the part of the desk the API drives.
type Detector interface {
	Submit(ctx context.Context, text, claimedSource string) (*models.AnalysisResult, error)
	SubmitScrape(ctx context.Context, text string) (*models.ScrapeResult, error)
	ClearHistory(ctx context.Context) error
	SelectHistory(id string) bool
	State() detector.State
}

// HeadlineSource feeds GET /api/headlines.
type HeadlineSource interface {
	Ticker(ctx context.Context) ([]models.Headline, bool)
}

// Config holds the listener settings.
type Config struct {
	Port           int
	AllowedOrigins []string
}

type Server struct {
	detector  Detector
	headlines HeadlineSource
	logger    *zap.Logger
	origins   []string
	engine    *gin.Engine
	server    *http.Server
}

func New(cfg Config, d Detector, headlines HeadlineSource, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		detector:  d,
		headlines: headlines,
		logger:    logger,
		origins:   cfg.AllowedOrigins,
	}
	s.engine = s.registerRoutes()
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed engine, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

func (s *Server) Start(wg *sync.WaitGroup, errChan chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.logger.Info("api server listening", zap.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
