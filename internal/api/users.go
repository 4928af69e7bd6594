package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/aicoconsole/internal/store"
)

type userRequest struct {
	Username   string  `json:"username"`
	Password   string  `json:"password"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Email      *string `json:"email"`
	ChatworkID *string `json:"chatworkId"`
}

func (r userRequest) params() (store.UserParams, error) {
	params := store.UserParams{
		Username:   r.Username,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		ChatworkID: r.ChatworkID,
	}
	if r.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
		if err != nil {
			return params, err
		}
		params.PasswordHash = string(hash)
	}
	return params, nil
}

func (s *Server) listUsers(c echo.Context) error {
	users, err := s.users.List(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch users")
	}
	return c.JSON(http.StatusOK, users)
}

func (s *Server) createUser(c echo.Context) error {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	params, err := req.params()
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
	}

	user, err := s.users.Create(c.Request().Context(), params)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create user")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
	}
	return c.JSON(http.StatusCreated, user)
}

func (s *Server) updateUser(c echo.Context) error {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	params, err := req.params()
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update user")
	}

	user, err := s.users.Update(c.Request().Context(), c.Param("id"), params)
	if err != nil {
		log.Error().Err(err).Msg("Failed to update user")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update user")
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusNotFound, "ユーザーが見つかりません")
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) deleteUser(c echo.Context) error {
	if err := s.users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		log.Error().Err(err).Msg("Failed to delete user")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete user")
	}
	return c.NoContent(http.StatusNoContent)
}
