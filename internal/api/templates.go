package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type templateRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

func (s *Server) listTemplates(c echo.Context) error {
	templates, err := s.templates.List(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list templates")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch templates")
	}
	return c.JSON(http.StatusOK, templates)
}

func (s *Server) createTemplate(c echo.Context) error {
	var req templateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" || req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and content are required")
	}

	template, err := s.templates.Create(c.Request().Context(), req.Name, req.Content)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create template")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create template")
	}
	return c.JSON(http.StatusCreated, template)
}

func (s *Server) updateTemplate(c echo.Context) error {
	var req templateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	template, err := s.templates.Update(c.Request().Context(), c.Param("id"), req.Name, req.Content)
	if err != nil {
		log.Error().Err(err).Msg("Failed to update template")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update template")
	}
	if template == nil {
		return echo.NewHTTPError(http.StatusNotFound, "テンプレートが見つかりません")
	}
	return c.JSON(http.StatusOK, template)
}

func (s *Server) deleteTemplate(c echo.Context) error {
	if err := s.templates.Delete(c.Request().Context(), c.Param("id")); err != nil {
		log.Error().Err(err).Msg("Failed to delete template")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete template")
	}
	return c.NoContent(http.StatusNoContent)
}
