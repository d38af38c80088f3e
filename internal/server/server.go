// Package server serves the review page and its JSON API.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/wavelabel/review"
)

//go:embed templates/*.html
var templates embed.FS

// Server wires HTTP endpoints around a review session.
type Server struct {
	Router  *gin.Engine
	Session *review.Session
	Log     logrus.FieldLogger
}

func NewServer(session *review.Session, log logrus.FieldLogger) *Server {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(RequestLogger(log))

	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templates, "templates/*.html")))

	s := &Server{
		Router:  r,
		Session: session,
		Log:     log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.GET("/health", s.health)

	// page with form controls
	s.Router.GET("/", s.page)
	s.Router.POST("/prev", s.formPrev)
	s.Router.POST("/delete", s.formDelete)
	s.Router.POST("/keep", s.formKeep)

	api := s.Router.Group("/api")
	{
		api.GET("/state", s.getState)
		api.POST("/prev", s.postPrev)
		api.POST("/delete", s.postDelete)
		api.POST("/keep", s.postKeep)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "session": s.Session.ID(), "remaining": s.Session.Len()})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
