// Package server exposes the registered problems and their solutions over
// http.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Server struct {
	Addr   string
	ctx    context.Context
	server *http.Server
	router *gin.Engine
}

func NewServer(ctx context.Context, addr string) *Server {
	s := &Server{
		Addr: addr,
		ctx:  ctx,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/problems", handleProblems)
	r.GET("/problems/:name", handleProblem)
	r.POST("/solve", handleSolve)
	s.router = r
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// Handler is the router serving the requests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves in the background until the context is cancelled
func (s *Server) Start() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[server] %s: %v", s.Addr, err)
		}
	}()

	go func() {
		<-s.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.server.Shutdown(ctx)
	}()
	log.Printf("[server] listening on %s", s.Addr)
}
