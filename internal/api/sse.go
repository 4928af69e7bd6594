package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// streamEvents opens the live SSE stream for one terminal. The handler
// blocks until the client disconnects; pushed messages and keep-alives are
// written by the hub from other goroutines.
func (s *Server) streamEvents(c echo.Context) error {
	terminalID := c.Param("terminal_id")
	if terminalID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "terminal_id is required")
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	conn, err := s.hub.Register(terminalID, c.Response())
	if err != nil {
		log.Error().Err(err).Str("terminal_id", terminalID).Msg("SSE registration failed")
		return err
	}
	defer s.hub.Unregister(conn.ID)

	<-c.Request().Context().Done()
	return nil
}
