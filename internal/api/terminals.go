package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/aicoconsole/internal/store"
	"github.com/aicoconsole/pkg/models"
)

type createTerminalRequest struct {
	AicoID   string  `json:"aicoId"`
	Name     string  `json:"name"`
	Greeting *string `json:"greeting"`
}

type updateTerminalRequest struct {
	AicoID   *string `json:"aicoId"`
	Name     *string `json:"name"`
	Greeting *string `json:"greeting"`
}

// listTerminals returns all terminals with their dashboard counters
func (s *Server) listTerminals(c echo.Context) error {
	terminals, err := s.terminals.List(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list terminals")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch terminals")
	}
	return c.JSON(http.StatusOK, terminals)
}

func (s *Server) createTerminal(c echo.Context) error {
	var req createTerminalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.AicoID == "" || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "aicoId and name are required")
	}

	ctx := c.Request().Context()

	existing, err := s.terminals.GetByAicoID(ctx, req.AicoID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to check terminal")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create terminal")
	}
	if existing != nil {
		return echo.NewHTTPError(http.StatusConflict, "このAICO IDは既に登録されています")
	}

	terminal, err := s.terminals.Create(ctx, req.AicoID, req.Name, req.Greeting)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create terminal")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create terminal")
	}
	return c.JSON(http.StatusCreated, terminal)
}

func (s *Server) updateTerminal(c echo.Context) error {
	var req updateTerminalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	terminal, err := s.terminals.Update(c.Request().Context(), c.Param("id"), store.UpdateTerminalParams{
		AicoID:   req.AicoID,
		Name:     req.Name,
		Greeting: req.Greeting,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to update terminal")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update terminal")
	}
	if terminal == nil {
		return echo.NewHTTPError(http.StatusNotFound, "端末が見つかりません")
	}
	return c.JSON(http.StatusOK, terminal)
}

func (s *Server) deleteTerminal(c echo.Context) error {
	if err := s.terminals.Delete(c.Request().Context(), c.Param("id")); err != nil {
		log.Error().Err(err).Msg("Failed to delete terminal")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete terminal")
	}
	return c.NoContent(http.StatusNoContent)
}

type deviceMessageRequest struct {
	MessageID string             `json:"messageId"`
	Speaker   string             `json:"speaker"`
	Message   string             `json:"message"`
	File      *deviceFileRequest `json:"file"`
}

// deviceFileRequest carries the metadata of a file the device attached to a
// message. The console keeps the reference only; upload mechanics live on the
// device side.
type deviceFileRequest struct {
	Path     string `json:"path"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// handleMessage stores a device conversation record. USER messages run the
// action dispatcher and a matched MEDIA rule's URL is returned inline.
func (s *Server) handleMessage(c echo.Context) error {
	var req deviceMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.MessageID == "" || req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "messageId and message are required")
	}
	if req.Speaker != models.SpeakerUser && req.Speaker != models.SpeakerAico {
		return echo.NewHTTPError(http.StatusBadRequest, "speaker must be USER or AICO")
	}

	var attachment *store.AttachmentParams
	if req.File != nil {
		if req.File.Path == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "file path is required")
		}
		attachment = &store.AttachmentParams{
			Path:     req.File.Path,
			MimeType: req.File.MimeType,
			Size:     req.File.Size,
		}
	}

	ctx := c.Request().Context()
	terminalID := c.Param("id")

	terminal, err := s.terminals.GetByID(ctx, terminalID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to look up terminal")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store message")
	}
	if terminal == nil {
		return echo.NewHTTPError(http.StatusNotFound, "端末が見つかりません")
	}

	record, err := s.conversations.Insert(ctx, store.InsertParams{
		MessageID:  req.MessageID,
		TerminalID: terminal.ID,
		Speaker:    req.Speaker,
		Message:    req.Message,
		Attachment: attachment,
	})
	if err != nil {
		log.Error().Err(err).Str("terminal_id", terminal.ID).Msg("Failed to store conversation")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store message")
	}

	response := map[string]interface{}{
		"conversation": record,
	}

	if req.Speaker == models.SpeakerUser {
		previous, err := s.conversations.PreviousUserMessage(ctx, terminal.ID, req.MessageID, record.CreatedAt, record.ID)
		if err != nil {
			log.Error().Err(err).Str("terminal_id", terminal.ID).Msg("Failed to load previous message")
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process message")
		}

		result, err := s.dispatcher.ProcessMessage(ctx, terminal.ID, req.Message, req.MessageID, previous)
		if err != nil {
			log.Error().Err(err).Str("terminal_id", terminal.ID).Msg("Action dispatch failed")
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process message")
		}
		if result != nil {
			response["mediaUrl"] = result.MediaURL
		}
	}

	return c.JSON(http.StatusOK, response)
}

// handlePolling processes a device heartbeat and returns the greeting
func (s *Server) handlePolling(c echo.Context) error {
	greeting, err := s.terminals.MarkOnline(c.Request().Context(), c.Param("id"), time.Now())
	if err != nil {
		log.Error().Err(err).Str("terminal_id", c.Param("id")).Msg("Heartbeat failed")
		return echo.NewHTTPError(http.StatusNotFound, "端末が見つかりません")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"greeting": greeting,
	})
}

type forceSpeakRequest struct {
	Message string `json:"message"`
}

// forceSpeak stores an AICO-side conversation record and pushes the message
// to every live stream of the terminal
func (s *Server) forceSpeak(c echo.Context) error {
	var req forceSpeakRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	ctx := c.Request().Context()
	terminal, err := s.terminals.GetByID(ctx, c.Param("id"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to look up terminal")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send message")
	}
	if terminal == nil {
		return echo.NewHTTPError(http.StatusNotFound, "端末が見つかりません")
	}

	messageID := fmt.Sprintf("force_%d", time.Now().UnixMilli())
	_, err = s.conversations.Insert(ctx, store.InsertParams{
		MessageID:  messageID,
		TerminalID: terminal.ID,
		Speaker:    models.SpeakerAico,
		Message:    req.Message,
	})
	if err != nil {
		log.Error().Err(err).Str("terminal_id", terminal.ID).Msg("Failed to store forced message")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send message")
	}

	delivered := s.hub.Push(terminal.ID, req.Message)

	log.Info().
		Str("terminal_id", terminal.ID).
		Int("delivered", delivered).
		Msg("Forced message pushed")

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messageId": messageID,
		"delivered": delivered,
	})
}

type greetingRequest struct {
	Greeting string `json:"greeting"`
}

// updateGreeting replaces the phrase returned on heartbeat
func (s *Server) updateGreeting(c echo.Context) error {
	var req greetingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	terminal, err := s.terminals.UpdateGreeting(c.Request().Context(), c.Param("id"), req.Greeting)
	if err != nil {
		log.Error().Err(err).Msg("Failed to update greeting")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update greeting")
	}
	if terminal == nil {
		return echo.NewHTTPError(http.StatusNotFound, "端末が見つかりません")
	}
	return c.JSON(http.StatusOK, terminal)
}

// listErrorLogs returns a terminal's liveness error events
func (s *Server) listErrorLogs(c echo.Context) error {
	logs, err := s.errorLogs.ListByTerminal(c.Request().Context(), c.Param("id"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list error logs")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch error logs")
	}
	return c.JSON(http.StatusOK, logs)
}
