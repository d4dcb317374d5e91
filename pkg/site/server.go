package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/aretw0/folio/pkg/core"
)

// Server is the preview server. It holds no posts: every request reads the
// content root through the Source, so edits show up on reload.
type Server struct {
	Echo *echo.Echo

	src      Source
	renderer Renderer
	cfg      Config
	pages    *pages
}

// NewServer wires the routes of the preview server.
func NewServer(src Source, renderer Renderer, cfg Config) (*Server, error) {
	cfg.setDefaults()

	tpl, err := loadPages()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Echo:     echo.New(),
		src:      src,
		renderer: renderer,
		cfg:      cfg,
		pages:    tpl,
	}
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupMiddleware() {
	e := s.Echo
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Pre(middleware.RemoveTrailingSlash())

	logger := s.cfg.Logger
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
}

func (s *Server) setupRoutes() {
	e := s.Echo
	e.GET("/", s.handleIndex)
	e.GET("/posts/*", s.handlePost)
	e.GET("/tags/:tag", s.handleTag)
	e.GET("/api/posts", s.handleAPIList)
	e.GET("/api/posts/*", s.handleAPIPost)
	e.GET("/feed.xml", s.handleFeed)
	e.GET("/sitemap.xml", s.handleSitemap)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Echo.ServeHTTP(w, r)
}

// Start serves on cfg.Addr until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Echo.Start(s.cfg.Addr)
	}()
	s.cfg.Logger.Info("preview server listening", "addr", s.cfg.Addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.Echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}

func (s *Server) handleIndex(c echo.Context) error {
	posts, err := s.src.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return s.html(c, http.StatusOK, s.pages.renderIndex, pageData{
		Site:  s.cfg,
		Posts: posts,
		Tags:  core.CollectTags(posts),
	})
}

func (s *Server) handleTag(c echo.Context) error {
	tag := unescape(c.Param("tag"))
	posts, err := s.src.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return s.html(c, http.StatusOK, s.pages.renderIndex, pageData{
		Site:  s.cfg,
		Posts: filterTag(posts, tag),
		Tags:  core.CollectTags(posts),
		Tag:   core.Fold(tag),
	})
}

func (s *Server) handlePost(c echo.Context) error {
	post, err := s.src.GetPost(c.Request().Context(), slugParam(c))
	if err != nil {
		return err
	}
	body, err := s.renderer.RenderPost(post)
	if err != nil {
		return err
	}
	return s.html(c, http.StatusOK, s.pages.renderPost, pageData{Site: s.cfg, Post: post, Body: body})
}

func (s *Server) handleAPIList(c echo.Context) error {
	posts, err := s.src.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, NewPostList(posts))
}

func (s *Server) handleAPIPost(c echo.Context) error {
	post, err := s.src.GetPost(c.Request().Context(), slugParam(c))
	if err != nil {
		return err
	}
	body, err := s.renderer.RenderPost(post)
	if err != nil {
		return err
	}
	out := NewPostJSON(post)
	out.Content = post.Content
	out.HTML = string(body)
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleFeed(c echo.Context) error {
	posts, err := s.src.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := writeFeed(&buf, s.cfg, posts); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", buf.Bytes())
}

func (s *Server) handleSitemap(c echo.Context) error {
	posts, err := s.src.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := writeSitemap(&buf, s.cfg, posts); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationXMLCharsetUTF8, buf.Bytes())
}

func (s *Server) html(c echo.Context, code int, render func(io.Writer, pageData) error, data pageData) error {
	var buf bytes.Buffer
	if err := render(&buf, data); err != nil {
		return err
	}
	return c.HTMLBlob(code, buf.Bytes())
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if errors.Is(err, core.ErrNotFound) {
		err = echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	he, ok := err.(*echo.HTTPError)
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		s.cfg.Logger.Error("request failed", "uri", c.Request().RequestURI, "error", err)
	}

	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		msg := http.StatusText(code)
		if ok && code < 500 {
			msg = fmt.Sprint(he.Message)
		}
		_ = c.JSON(code, map[string]string{"error": msg})
		return
	}

	if code == http.StatusNotFound {
		_ = s.html(c, code, s.pages.renderNotFound, pageData{Site: s.cfg})
		return
	}
	s.Echo.DefaultHTTPErrorHandler(err, c)
}

// slugParam reads the wildcard part of /posts/* and /api/posts/*.
func slugParam(c echo.Context) string {
	return strings.Trim(unescape(c.Param("*")), "/")
}

func unescape(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}
