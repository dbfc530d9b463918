// Package web is the HTTP shell around the list sync workflow: it renders the
// input form, runs a sync per submission and redirects to the finished list or
// back to the form with an error code.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/mikequentel/otherside/internal/listsync"
	"github.com/mikequentel/otherside/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Syncer runs one list sync.
type Syncer interface {
	Sync(ctx context.Context, creds model.Credentials, target string) (*listsync.Result, error)
}

// Server serves the form and the create_list endpoint.
type Server struct {
	engine  *gin.Engine
	syncer  Syncer
	webBase string
	logger  *log.Logger
}

type formPage struct {
	Error *Message
}

// New wires routes. webBase is prefixed to list URIs when redirecting, eg:
// "https://twitter.com".
func New(syncer Syncer, webBase string, logger *log.Logger) *Server {
	s := &Server{
		engine:  gin.New(),
		syncer:  syncer,
		webBase: strings.TrimRight(webBase, "/"),
		logger:  logger,
	}
	s.engine.Use(gin.Recovery(), s.requestLog())
	s.engine.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	s.engine.GET("/", s.index)
	s.engine.GET("/add", s.add)
	s.engine.POST("/create_list", s.createList)
	s.engine.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "form.html", formPage{})
}

func (s *Server) add(c *gin.Context) {
	page := formPage{}
	if code, err := strconv.Atoi(c.Query("error_code")); err == nil {
		if m, ok := MessageFor(listsync.Code(code)); ok {
			page.Error = &m
		}
	}
	c.HTML(http.StatusOK, "form.html", page)
}

func (s *Server) createList(c *gin.Context) {
	target := c.PostForm("screen_name")
	creds := model.Credentials{
		AccessToken:  c.PostForm("access_token"),
		AccessSecret: c.PostForm("secret"),
	}

	res, err := s.syncer.Sync(c.Request.Context(), creds, target)
	if err != nil {
		code := listsync.CodeOf(err)
		s.logger.Warn("sync failed", "target", target, "code", int(code), "err", err)
		if code == 0 {
			c.Redirect(http.StatusFound, "/add")
			return
		}
		c.Redirect(http.StatusFound, "/add?error_code="+strconv.Itoa(int(code)))
		return
	}
	if len(res.Failures) > 0 {
		s.logger.Warn("list partially populated",
			"target", target,
			"failed_batches", len(res.Failures),
			"failed_members", res.FailedMembers())
	}
	c.Redirect(http.StatusFound, s.webBase+res.RedirectURI)
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start))
	}
}
