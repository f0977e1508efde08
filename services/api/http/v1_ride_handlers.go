package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const liveWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// liveConn is the part of *websocket.Conn the live push writes to.
type liveConn interface {
	SetWriteDeadline(t time.Time) error
	WriteJSON(v any) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
}

// pushRideFrame writes one ride frame and reports whether the push may go on.
func (s *Server) pushRideFrame(conn liveConn) bool {
	if err := conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout)); err != nil {
		s.log.WithError(err).Debug("live ride write deadline")
		return false
	}
	if err := conn.WriteJSON(s.rideFrame()); err != nil {
		s.log.WithError(err).Debug("live ride push stopped")
		return false
	}
	return true
}

func (s *Server) closeLive(conn liveConn) {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil {
		s.log.WithError(err).Debug("live ride close frame")
	}
}

func (s *Server) rideFrame() gin.H {
	r := s.broadcast.Ride()
	return gin.H{
		"data": r,
		"meta": gin.H{
			"time_hms":   r.Total.TimeHMS(),
			"session_id": r.SessionID,
			"past_laps":  len(r.PastLaps),
		},
	}
}

// handleV1Ride returns the current ride aggregate
// GET /api/v1/ride
func (s *Server) handleV1Ride(c *gin.Context) {
	c.JSON(http.StatusOK, s.rideFrame())
}

// handleV1RideZones returns the named time-in-zone breakdown
// GET /api/v1/ride/zones
func (s *Server) handleV1RideZones(c *gin.Context) {
	r := s.broadcast.Ride()
	a := r.Athlete

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"hr":    r.TimeInHRZones.Shares(a.HRZones),
			"power": r.TimeInPowerZones.Shares(a.PowerZones),
		},
		"meta": gin.H{
			"hr_threshold":    a.HRThreshold,
			"power_threshold": a.PowerThreshold,
			"hr_zone":         a.HRZones.Name(r.Total.HeartRate.Cur),
			"power_zone":      a.PowerZones.Name(r.Total.Power.Cur),
		},
	})
}

// handleV1RideReset opens a new ride session
// POST /api/v1/ride/reset
func (s *Server) handleV1RideReset(c *gin.Context) {
	s.broadcast.ResetRide()
	c.JSON(http.StatusAccepted, gin.H{"data": gin.H{"session_id": s.broadcast.Ride().SessionID}})
}

// handleV1RideLive pushes the ride over a websocket at the live interval
// GET /api/v1/ride/live
func (s *Server) handleV1RideLive(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.cfg.LivePushInterval)
	defer ticker.Stop()

	for {
		if !s.pushRideFrame(conn) {
			return
		}

		select {
		case <-closed:
			return
		case <-c.Request.Context().Done():
			s.closeLive(conn)
			return
		case <-ticker.C:
		}
	}
}
