package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/uzhavan/disai/core"
)

// sampleQueries are the built-in smoke queries served by GET /test.
var sampleQueries = []string{
	"என்டிவிஐ மூலம் பயிர்களின் ஆரோக்கியத்தை மதிப்பிடலாம்",
	"விளைச்சல் முன்னறிவிப்பு",
	"பயிர்நோய் கண்டறிதல்",
	"நீர்ப்பாசனத் திட்டம்",
	"பயிர் பரிந்துரை",
}

type predictRequest struct {
	Query *string `json:"query"`
}

type predictResponse struct {
	Query         string            `json:"query"`
	Predictions   []core.Prediction `json:"predictions"`
	TopPrediction *core.Prediction  `json:"top_prediction"`
}

type testResult struct {
	Query         string           `json:"query"`
	TopPrediction *core.Prediction `json:"top_prediction"`
}

func (s *Server) handlePredict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query text is required"})
		return
	}

	query := *req.Query
	if strings.TrimSpace(query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query text cannot be empty"})
		return
	}

	s.respondPredictions(c, query)
}

func (s *Server) handlePredictGet(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter is required"})
		return
	}

	s.respondPredictions(c, query)
}

func (s *Server) respondPredictions(c *gin.Context, query string) {
	predictions, err := s.engine.Predict(c.Request.Context(), query)
	if err != nil {
		s.logger.Error("prediction failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if predictions == nil {
		predictions = []core.Prediction{}
	}

	resp := predictResponse{
		Query:       query,
		Predictions: predictions,
	}
	if len(predictions) > 0 {
		resp.TopPrediction = &predictions[0]
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handlePages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pages": s.engine.Pages()})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.Stats())
}

func (s *Server) handleTest(c *gin.Context) {
	results := make([]testResult, 0, len(sampleQueries))
	for _, query := range sampleQueries {
		predictions, err := s.engine.Predict(c.Request.Context(), query)
		if err != nil {
			s.logger.Error("sample query failed", "query", query, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		result := testResult{Query: query}
		if len(predictions) > 0 {
			result.TopPrediction = &predictions[0]
		}
		results = append(results, result)
	}

	c.JSON(http.StatusOK, gin.H{"test_results": results})
}

func (s *Server) handleReload(c *gin.Context) {
	if err := s.engine.ReloadFromFile(c.Request.Context()); err != nil {
		s.logger.Error("catalog reload failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}

func (s *Server) handleHealthz(c *gin.Context) {
	stats := s.engine.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"strategy":   s.engine.Strategy(),
		"pages":      stats.TotalPages,
		"candidates": stats.TotalKeywords,
	})
}
