package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/aicoconsole/internal/store"
)

type actionRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	TerminalID  string   `json:"terminalId"`
	Keywords    []string `json:"keywords"`
	Condition   string   `json:"condition"`
	Type        string   `json:"type"`
	MediaID     *string  `json:"mediaId"`
	TemplateID  *string  `json:"templateId"`
	UserID      *string  `json:"userId"`
}

func (r actionRequest) params() store.ActionRuleParams {
	return store.ActionRuleParams{
		Name:        r.Name,
		Description: r.Description,
		TerminalID:  r.TerminalID,
		Keywords:    r.Keywords,
		Condition:   r.Condition,
		Type:        r.Type,
		MediaID:     r.MediaID,
		TemplateID:  r.TemplateID,
		UserID:      r.UserID,
	}
}

// listActions returns all keyword rules with their terminal names
func (s *Server) listActions(c echo.Context) error {
	actions, err := s.actions.List(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list actions")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch actions")
	}
	return c.JSON(http.StatusOK, actions)
}

func (s *Server) createAction(c echo.Context) error {
	var req actionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" || req.TerminalID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and terminalId are required")
	}

	ctx := c.Request().Context()
	terminal, err := s.terminals.GetByID(ctx, req.TerminalID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to look up terminal")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create action")
	}
	if terminal == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "端末が見つかりません")
	}

	rule, err := s.actions.Create(ctx, req.params())
	if err != nil {
		log.Error().Err(err).Msg("Failed to create action")
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, rule)
}

func (s *Server) updateAction(c echo.Context) error {
	var req actionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	rule, err := s.actions.Update(c.Request().Context(), c.Param("id"), req.params())
	if err != nil {
		log.Error().Err(err).Msg("Failed to update action")
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if rule == nil {
		return echo.NewHTTPError(http.StatusNotFound, "アクションが見つかりません")
	}
	return c.JSON(http.StatusOK, rule)
}

func (s *Server) deleteAction(c echo.Context) error {
	if err := s.actions.Delete(c.Request().Context(), c.Param("id")); err != nil {
		log.Error().Err(err).Msg("Failed to delete action")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete action")
	}
	return c.NoContent(http.StatusNoContent)
}
