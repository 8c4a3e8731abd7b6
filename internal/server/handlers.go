package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/josephgoksu/veritas/internal/detector"
	"github.com/josephgoksu/veritas/models"
)

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.detector.State())
}

// handleAnalyze runs the analyze lane. Blank text is a no-op (204).
func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := s.detector.Submit(c.Request.Context(), req.Text, req.ClaimedSource)
	switch {
	case errors.Is(err, detector.ErrLaneBusy):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case err != nil:
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: detector.ErrorMessage(err, detector.DefaultAnalyzeError)})
	case result == nil:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, result)
	}
}

func (s *Server) handleScrape(c *gin.Context) {
	var req ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := s.detector.SubmitScrape(c.Request.Context(), req.Text)
	switch {
	case errors.Is(err, detector.ErrLaneBusy):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case err != nil:
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: detector.ErrorMessage(err, detector.DefaultScrapeError)})
	case result == nil:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, result)
	}
}

func (s *Server) handleListHistory(c *gin.Context) {
	entries := s.detector.State().History
	if entries == nil {
		entries = []models.AnalysisResult{}
	}
	c.JSON(http.StatusOK, entries)
}

// handleClearHistory wipes history. The in-memory list is empty even when
// the delete could not be persisted, so the failure is reported as 500 with
// that message.
func (s *Server) handleClearHistory(c *gin.Context) {
	if err := s.detector.ClearHistory(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSelectHistory(c *gin.Context) {
	if !s.detector.SelectHistory(c.Param("id")) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "history entry not found"})
		return
	}
	c.JSON(http.StatusOK, s.detector.State().Current)
}

func (s *Server) handleHeadlines(c *gin.Context) {
	if s.headlines == nil {
		c.JSON(http.StatusOK, HeadlinesResponse{Headlines: models.FallbackHeadlines})
		return
	}
	h, live := s.headlines.Ticker(c.Request.Context())
	c.JSON(http.StatusOK, HeadlinesResponse{Headlines: h, Live: live})
}
