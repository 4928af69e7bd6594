package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type fileRequest struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// listFiles returns operator-uploaded media metadata
func (s *Server) listFiles(c echo.Context) error {
	files, err := s.files.ListServerFiles(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list files")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch files")
	}
	return c.JSON(http.StatusOK, files)
}

// createFile registers media metadata referenced by MEDIA rules.
// Upload mechanics live outside this API; only metadata is tracked here.
func (s *Server) createFile(c echo.Context) error {
	var req fileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" || req.URL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and url are required")
	}

	file, err := s.files.CreateServerFile(c.Request().Context(), req.Name, req.URL, req.MimeType, req.Size)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create file")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create file")
	}
	return c.JSON(http.StatusCreated, file)
}

func (s *Server) deleteFile(c echo.Context) error {
	if err := s.files.DeleteServerFile(c.Request().Context(), c.Param("id")); err != nil {
		log.Error().Err(err).Msg("Failed to delete file")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete file")
	}
	return c.NoContent(http.StatusNoContent)
}
