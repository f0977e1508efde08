package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/tpvbc/services/bcast/models"
)

func (s *Server) lookupFeed(c *gin.Context) (models.Kind, bool) {
	name := c.Param("feed")
	kind, ok := models.ParseKind(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown feed " + name})
		return 0, false
	}
	return kind, true
}

// handleV1Feed returns the latest snapshot of one feed
// GET /api/v1/feeds/:feed
func (s *Server) handleV1Feed(c *gin.Context) {
	kind, ok := s.lookupFeed(c)
	if !ok {
		return
	}

	st, data, err := s.broadcast.Feed(kind)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"meta": gin.H{
			"feed":  kind.String(),
			"state": st,
		},
	})
}

// handleV1FeedState returns only the lifecycle of one feed
// GET /api/v1/feeds/:feed/state
func (s *Server) handleV1FeedState(c *gin.Context) {
	kind, ok := s.lookupFeed(c)
	if !ok {
		return
	}

	st, _, err := s.broadcast.Feed(kind)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": st})
}
