// Package devserver is a local stand-in for the chat backend.
//
// It honors the /chat wire contract (request {"message"}, reply {"response"}
// or {"error"} with a non-2xx status) so the client can be developed and
// demonstrated without the real service.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/diogo/relaychat/internal/logging"
	"github.com/diogo/relaychat/internal/models"
)

// Error texts returned by /chat
const (
	ErrNoMessage    = "No message provided"
	ErrInitializing = "AI system is still initializing. Please try again in a moment."
	ErrInvalidBody  = "invalid JSON body"
)

// DefaultAddr is the listen address used by the devserver command
const DefaultAddr = ":5000"

// ReplyFunc produces the reply for one message
type ReplyFunc func(ctx context.Context, message string) (string, error)

// EchoReply answers with the message it received
func EchoReply(_ context.Context, message string) (string, error) {
	return "You said: " + message, nil
}

type chatResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server serves the chat endpoint
type Server struct {
	router  *chi.Mux
	log     logging.Logger
	reply   ReplyFunc
	warmup  time.Duration
	origins []string
	ready   atomic.Bool
	server  *http.Server
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the request logger
func WithLogger(log logging.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithReplyFunc replaces the echo reply
func WithReplyFunc(fn ReplyFunc) Option {
	return func(s *Server) {
		if fn != nil {
			s.reply = fn
		}
	}
}

// WithWarmup keeps /chat answering 503 for d after Start
func WithWarmup(d time.Duration) Option {
	return func(s *Server) {
		s.warmup = d
	}
}

// WithAllowedOrigins sets the CORS origins
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// NewServer creates a Server listening on addr.
// Without WithWarmup the server is ready immediately.
func NewServer(addr string, opts ...Option) *Server {
	s := &Server{
		log:     logging.Nop(),
		reply:   EchoReply,
		origins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ready.Store(s.warmup <= 0)

	s.router = s.createRouter()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) createRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Post(models.ChatPath, s.handleChat)

	return r
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler { return s.router }

// Addr returns the configured listen address
func (s *Server) Addr() string { return s.server.Addr }

// Ready reports whether /chat accepts messages
func (s *Server) Ready() bool { return s.ready.Load() }

// SetReady flips the initializing state
func (s *Server) SetReady(ready bool) { s.ready.Store(ready) }

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	if !s.Ready() {
		go func() {
			select {
			case <-time.After(s.warmup):
				s.SetReady(true)
				s.log.Info("backend ready")
			case <-ctx.Done():
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting dev server", logging.StringField("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("dev server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("dev server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !s.Ready() {
		status = "initializing"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !s.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: ErrInitializing})
		return
	}

	var req models.ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ErrInvalidBody})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ErrNoMessage})
		return
	}

	reply, err := s.reply(r.Context(), req.Message)
	if err != nil {
		s.log.Error("reply failed", logging.ErrorField(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: fmt.Sprintf("Error during AI processing: %v", err),
		})
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Response: reply})
}

// requestLogger logs one line per request
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			logging.StringField("method", r.Method),
			logging.StringField("path", r.URL.Path),
			logging.IntField("status", ww.Status()),
			logging.IntField("bytes", ww.BytesWritten()),
			logging.DurationField("duration", time.Since(start)),
			logging.StringField("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
