package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/tpvbc/services/bcast/stream"
)

type startRequest struct {
	Address string `json:"address"`
}

// validateAddress accepts file:// paths and http(s) URLs with a host.
func validateAddress(address string) error {
	if strings.HasPrefix(address, "file://") {
		if strings.TrimPrefix(address, "file://") == "" {
			return errors.New("file address needs a path")
		}
		return nil
	}
	u, err := url.Parse(address)
	if err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("unsupported address %q", address)
	}
	return nil
}

// handleV1Start starts every feed against the requested source
// POST /api/v1/control/start
func (s *Server) handleV1Start(c *gin.Context) {
	req := startRequest{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
	}
	if req.Address == "" {
		req.Address = s.cfg.Source
	}

	if err := validateAddress(req.Address); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.broadcast.Start(req.Address); err != nil {
		if errors.Is(err, stream.ErrAlreadyRunning) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "source": s.broadcast.Source()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"data": gin.H{
			"source":  req.Address,
			"running": true,
		},
	})
}

// handleV1Stop stops every feed; ?wait=true blocks until all loops exited
// POST /api/v1/control/stop
func (s *Server) handleV1Stop(c *gin.Context) {
	wait := false
	if waitStr := c.Query("wait"); waitStr != "" {
		val, err := strconv.ParseBool(waitStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wait parameter"})
			return
		}
		wait = val
	}

	if !wait {
		s.broadcast.Stop()
		c.JSON(http.StatusAccepted, gin.H{"data": gin.H{"stopping": true}})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := s.broadcast.StopAndWait(ctx); err != nil {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"running": s.broadcast.Running()}})
}

// handleV1Status reports the lifecycle of every feed
// GET /api/v1/control/status
func (s *Server) handleV1Status(c *gin.Context) {
	states := s.broadcast.States()
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"running": s.broadcast.Running(),
			"source":  s.broadcast.Source(),
			"feeds":   states,
		},
		"meta": gin.H{
			"count":        len(states),
			"generated_at": time.Now().UTC().Format(time.RFC3339),
		},
	})
}
