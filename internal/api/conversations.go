package api

import (
	"encoding/csv"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/aicoconsole/internal/store"
)

func conversationFilter(c echo.Context) (store.ListFilter, error) {
	filter := store.ListFilter{
		TerminalID: c.QueryParam("terminalId"),
		Keyword:    c.QueryParam("keyword"),
	}

	if raw := c.QueryParam("start"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "start must be YYYY-MM-DD")
		}
		filter.Start = &start
	}
	if raw := c.QueryParam("end"); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "end must be YYYY-MM-DD")
		}
		// Inclusive end date
		end = end.Add(24*time.Hour - time.Second)
		filter.End = &end
	}

	return filter, nil
}

// listConversations returns the filtered conversation history
func (s *Server) listConversations(c echo.Context) error {
	filter, err := conversationFilter(c)
	if err != nil {
		return err
	}

	conversations, err := s.conversations.List(c.Request().Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list conversations")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch conversations")
	}
	return c.JSON(http.StatusOK, conversations)
}

// downloadConversations streams the filtered history as CSV
func (s *Server) downloadConversations(c echo.Context) error {
	filter, err := conversationFilter(c)
	if err != nil {
		return err
	}

	conversations, err := s.conversations.List(c.Request().Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to export conversations")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export conversations")
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="conversations.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write([]string{"日時", "端末名", "メッセージID", "発話者", "メッセージ"}); err != nil {
		return err
	}
	for _, conv := range conversations {
		record := []string{
			conv.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			conv.TerminalName,
			conv.MessageID,
			conv.Speaker,
			conv.Message,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
