package server

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/hub"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

// Server exposes the spectator view over HTTP.
type Server struct {
	hub    *hub.Hub
	tokens *TokenIssuer
	engine *gin.Engine
}

// NewServer creates the spectator server. Routes are added by
// RegisterHandlers.
func NewServer(h *hub.Hub, tokens *TokenIssuer) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{hub: h, tokens: tokens, engine: gin.New()}
	s.engine.Use(gin.Recovery(), requestLogger())
	return s
}

// Engine returns the gin engine for use as an http.Handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterHandlers() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		SuccessResponse(c, gin.H{"status": "ok"})
	})

	spectator := s.engine.Group("/", s.tokens.RequireToken())
	spectator.GET("/api/game", s.handleGame)
	spectator.GET("/ws", s.handleWebSocket)
}

func (s *Server) handleGame(c *gin.Context) {
	_, span := tracer.Start(c.Request.Context(), "server.handleGame")
	defer span.End()

	msg, ok := s.hub.Latest()
	if !ok {
		ErrorResponse(c, http.StatusNotFound, "no game in progress")
		return
	}
	span.SetAttributes(attribute.String("match.id", msg.MatchID))
	SuccessResponse(c, msg)
}

// handleWebSocket's only responsibility is to hand the connection to the hub.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("spectator", c.GetString("spectator")),
	))
	defer span.End()

	s.hub.ServeWS(c.Writer, c.Request.WithContext(ctx))
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.DebugContext(c.Request.Context(), "Spectator request",
			"http.method", c.Request.Method,
			"http.path", c.Request.URL.Path,
			"http.status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Serve accepts connections on ln until ctx is cancelled and then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "Spectator server started", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Spectator server stopped")
	return nil
}
