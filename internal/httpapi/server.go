package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Server struct {
	srv *http.Server
}

func NewServer(addr string, h *Handler) *Server {
	gin.SetMode(gin.ReleaseMode)
	return &Server{srv: &http.Server{
		Addr:         addr,
		Handler:      NewRouter(h),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: processTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}}
}

// Start serves until Shutdown; a closed server is not an error.
func (s *Server) Start() error {
	log.Printf("HTTP API listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
