// Package server はペルソナスタジオの HTTP API を提供します。
// セッションは X-Session-ID ヘッダーで識別し、状態はすべてサーバー側の
// セッション集約に保持します。
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shouni/go-http-kit/httpkit"

	"github.com/shouni/go-persona-studio/internal/session"
	"github.com/shouni/go-persona-studio/pkg/studio"
)

// sessionHeader はセッション識別に使うリクエストヘッダーです。
const sessionHeader = "X-Session-ID"

// contextKeyStudio はミドルウェアが解決した Studio を持ち回すキーです。
const contextKeyStudio = "persona-studio"

// Server はペルソナスタジオの HTTP サーバーです。
type Server struct {
	sessions *session.Store
	fetcher  httpkit.Requester
	logger   *slog.Logger
}

// New はサーバーを初期化します。fetcher は参照画像の URL 取り込みに使います。
func New(sessions *session.Store, fetcher httpkit.Requester, logger *slog.Logger) (*Server, error) {
	if sessions == nil {
		return nil, errors.New("セッションストアが指定されていません")
	}
	if fetcher == nil {
		return nil, errors.New("HTTPフェッチャーが指定されていません")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{sessions: sessions, fetcher: fetcher, logger: logger}, nil
}

// Start はサーバーを起動し、リッスンし続けます。
func (s *Server) Start(addr string) error {
	e := s.newEcho()
	s.logger.Info("ペルソナスタジオサーバーを起動します", slog.String("addr", addr))
	return e.Start(addr)
}

// newEcho はルーティング済みの echo インスタンスを構築します。
func (s *Server) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Pre(middleware.RemoveTrailingSlash())

	e.Validator = &GenericEchoValidator{}

	s.setRoutes(e)
	return e
}

func (s *Server) setRoutes(e *echo.Echo) {
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Persona Studio API is running")
	})

	e.POST("/api/session", s.handleCreateSession)

	api := e.Group("/api", s.withSession)

	api.POST("/credential", s.handleSetCredential)
	api.DELETE("/credential", s.handleClearCredential)

	api.GET("/profile", s.handleGetProfile)
	api.PUT("/profile", s.handleUpdateProfile)
	api.POST("/profile/avatar", s.handleGenerateAvatar)

	api.GET("/references", s.handleListReferences)
	api.POST("/references", s.handleUploadReference)
	api.POST("/references/import", s.handleImportReference)
	api.DELETE("/references/:id", s.handleRemoveReference)

	api.POST("/roles/content", s.handleAssignContent)
	api.POST("/roles/style", s.handleAssignStyle)
	api.GET("/roles", s.handleGetRoles)

	api.GET("/group", s.handleGetGroup)
	api.POST("/group/toggle", s.handleToggleGroupMember)
	api.POST("/group/primary", s.handleSetGroupPrimary)

	api.POST("/generate/edit", s.handleGenerateEdit)
	api.POST("/generate/group", s.handleGenerateGroup)
	api.POST("/generate/video", s.handleGenerateVideo)
	api.POST("/enhance", s.handleEnhance)
	api.GET("/states", s.handleStates)

	api.GET("/gallery", s.handleGallery)
	api.GET("/assets/:id", s.handleAssetData)
	api.POST("/assets/:id/favorite", s.handleToggleFavorite)
	api.POST("/assets/:id/upscale", s.handleUpscale)

	api.GET("/assets/:id/edit", s.handleEditState)
	api.POST("/assets/:id/edit/apply", s.handleEditApply)
	api.POST("/assets/:id/edit/commit", s.handleEditCommit)
	api.POST("/assets/:id/edit/undo", s.handleEditUndo)
	api.POST("/assets/:id/edit/redo", s.handleEditRedo)
	api.POST("/assets/:id/edit/reset", s.handleEditReset)
	api.GET("/assets/:id/export", s.handleExport)

	api.GET("/prompts/suggestions", s.handleSuggestions)
	api.GET("/prompts/defaults", s.handleDefaultPrompts)
}

// withSession は X-Session-ID ヘッダーからセッション集約を解決します。
func (s *Server) withSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(sessionHeader)
		if id == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing "+sessionHeader+" header")
		}
		st, err := s.sessions.Get(id)
		if err != nil {
			return httpError(err)
		}
		c.Set(contextKeyStudio, st)
		return next(c)
	}
}

// currentStudio はミドルウェアが解決済みのセッション集約を取り出します。
func currentStudio(c echo.Context) *studio.Studio {
	return c.Get(contextKeyStudio).(*studio.Studio)
}
