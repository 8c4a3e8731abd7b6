package server

import "github.com/gin-gonic/gin"

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	if c := s.corsMiddleware(); c != nil {
		r.Use(c)
	}

	api := r.Group("/api")
	{
		api.GET("/state", s.handleState)
		api.POST("/analyze", s.handleAnalyze)
		api.POST("/scrape", s.handleScrape)

		api.GET("/history", s.handleListHistory)
		api.DELETE("/history", s.handleClearHistory)
		api.POST("/history/:id/select", s.handleSelectHistory)

		api.GET("/headlines", s.handleHeadlines)
	}
	return r
}
