package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/tpvbc/services/api/db"
)

func (s *Server) resultsQuery(c *gin.Context) (db.ResultsQuery, bool) {
	q := db.ResultsQuery{Event: c.Query("event"), Limit: s.cfg.DefaultLimit}

	if locStr := c.Query("location"); locStr != "" {
		loc, err := strconv.Atoi(locStr)
		if err != nil || loc < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location"})
			return q, false
		}
		q.Location = &loc
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return q, false
		}
		q.Limit = limit
	}
	return q, true
}

func (s *Server) requireStore(c *gin.Context) bool {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "results archive not configured"})
		return false
	}
	return true
}

// handleV1ResultsIndv returns archived individual results
// GET /api/v1/results/indv
func (s *Server) handleV1ResultsIndv(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}
	q, ok := s.resultsQuery(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	results, err := s.store.ListResultsIndv(ctx, q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": results,
		"meta": gin.H{"count": len(results), "event": q.Event},
	})
}

// handleV1ResultsTeam returns archived team results
// GET /api/v1/results/team
func (s *Server) handleV1ResultsTeam(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}
	q, ok := s.resultsQuery(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	results, err := s.store.ListResultsTeam(ctx, q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": results,
		"meta": gin.H{"count": len(results), "event": q.Event},
	})
}
