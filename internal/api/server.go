// Package api exposes the console's REST surface: operator CRUD endpoints,
// the device-facing message/heartbeat endpoints and the SSE stream.
package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/aicoconsole/internal/action"
	"github.com/aicoconsole/internal/api/auth"
	"github.com/aicoconsole/internal/config"
	"github.com/aicoconsole/internal/notify"
	"github.com/aicoconsole/internal/sse"
	"github.com/aicoconsole/internal/store"
)

// Server represents the API server
type Server struct {
	echo *echo.Echo
	cfg  *config.Config
	db   *sql.DB
	hub  *sse.Hub

	terminals     *store.TerminalStore
	actions       *store.ActionStore
	conversations *store.ConversationStore
	templates     *store.TemplateStore
	users         *store.UserStore
	systemUsers   *store.SystemUserStore
	files         *store.FileStore
	errorLogs     *store.ErrorLogStore

	dispatcher *action.Dispatcher
	tokens     *auth.TokenService
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, db *sql.DB, hub *sse.Hub) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	actions := store.NewActionStore(db)
	systemUsers := store.NewSystemUserStore(db)

	chat := notify.NewChatworkClient(cfg.Chatwork.APIURL, cfg.Chatwork.Token)
	mail := notify.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)

	server := &Server{
		echo:          e,
		cfg:           cfg,
		db:            db,
		hub:           hub,
		terminals:     store.NewTerminalStore(db),
		actions:       actions,
		conversations: store.NewConversationStore(db),
		templates:     store.NewTemplateStore(db),
		users:         store.NewUserStore(db),
		systemUsers:   systemUsers,
		files:         store.NewFileStore(db),
		errorLogs:     store.NewErrorLogStore(db),
		dispatcher:    action.NewDispatcher(actions, chat, mail),
		tokens:        auth.NewTokenService(systemUsers, cfg.Auth.JWTSecret),
	}

	server.setupRoutes()

	return server
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	v1 := s.echo.Group("/api/v1")
	v1.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(50))))

	// Public: operator login plus the device-facing stream endpoint
	v1.POST("/auth/login", s.login)
	v1.GET("/sse/:terminal_id", s.streamEvents)

	protected := v1.Group("", auth.RequireAuth(s.tokens))
	protected.GET("/auth/me", s.currentUser)

	protected.GET("/terminals", s.listTerminals)
	protected.POST("/terminals", s.createTerminal)
	protected.PUT("/terminals/:id", s.updateTerminal)
	protected.DELETE("/terminals/:id", s.deleteTerminal)
	protected.POST("/terminals/:id/message", s.handleMessage)
	protected.POST("/terminals/:id/polling", s.handlePolling)
	protected.POST("/terminals/:id/force-speak", s.forceSpeak)
	protected.POST("/terminals/:id/greeting", s.updateGreeting)
	protected.GET("/terminals/:id/error-logs", s.listErrorLogs)

	protected.GET("/conversations", s.listConversations)
	protected.GET("/conversations/download", s.downloadConversations)

	protected.GET("/actions", s.listActions)
	protected.POST("/actions", s.createAction)
	protected.PUT("/actions/:id", s.updateAction)
	protected.DELETE("/actions/:id", s.deleteAction)

	protected.GET("/templates", s.listTemplates)
	protected.POST("/templates", s.createTemplate)
	protected.PUT("/templates/:id", s.updateTemplate)
	protected.DELETE("/templates/:id", s.deleteTemplate)

	protected.GET("/users", s.listUsers)
	protected.POST("/users", s.createUser)
	protected.PUT("/users/:id", s.updateUser)
	protected.DELETE("/users/:id", s.deleteUser)

	protected.GET("/files", s.listFiles)
	protected.POST("/files", s.createFile)
	protected.DELETE("/files/:id", s.deleteFile)
}

func (s *Server) healthCheck(c echo.Context) error {
	if err := s.db.PingContext(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Start begins the API server and blocks until an interrupt arrives
func (s *Server) Start() error {
	go func() {
		if err := s.echo.Start(fmt.Sprintf(":%d", s.cfg.Server.Port)); err != nil && err != http.ErrServerClosed {
			s.echo.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	s.hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}
