package http

// registerV1Routes sets up the v1 API.
// Groups: /api/v1/control, /api/v1/feeds, /api/v1/ride, /api/v1/results
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware())

	control := v1.Group("/control")
	{
		control.POST("/start", s.handleV1Start)
		control.POST("/stop", s.handleV1Stop)
		control.GET("/status", s.handleV1Status)
	}

	feeds := v1.Group("/feeds")
	{
		feeds.GET("/:feed", s.handleV1Feed)
		feeds.GET("/:feed/state", s.handleV1FeedState)
	}

	rideGroup := v1.Group("/ride")
	{
		rideGroup.GET("", s.handleV1Ride)
		rideGroup.GET("/zones", s.handleV1RideZones)
		rideGroup.GET("/live", s.handleV1RideLive)
		rideGroup.POST("/reset", s.handleV1RideReset)
	}

	results := v1.Group("/results")
	{
		results.GET("/indv", s.handleV1ResultsIndv)
		results.GET("/team", s.handleV1ResultsTeam)
	}
}
