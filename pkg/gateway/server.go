// Package gateway exposes the chat service over HTTP.
//
// Endpoints:
//
//	POST   /api/chat                      run one chat turn
//	GET    /api/chat/history/{session_id} conversation history
//	DELETE /api/chat/history/{session_id} delete a session
//	GET    /api/chat/sessions             list active sessions
//	GET    /api/chat/models               model catalog + loaded set
//	GET    /api/chat/models/{key}         one catalog entry
//	GET    /api/chat/quality              recent quality verdicts
//	GET    /api/health                    liveness probe
package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/hotaru-ai/promptchat/pkg/chat"
	"github.com/hotaru-ai/promptchat/pkg/logger"
	"github.com/hotaru-ai/promptchat/pkg/qualitylog"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	// Generation on a cold model can take a while.
	writeTimeout = 180 * time.Second
	idleTimeout  = 120 * time.Second
)

// Server is the HTTP front for the chat service.
type Server struct {
	mux          *http.ServeMux
	svc          *chat.Service
	verdicts     *qualitylog.Store
	defaultModel string
}

// NewServer registers all routes. verdicts may be nil; the quality endpoint
// then reports 404.
func NewServer(svc *chat.Service, verdicts *qualitylog.Store, defaultModel string) *Server {
	s := &Server{
		mux:          http.NewServeMux(),
		svc:          svc,
		verdicts:     verdicts,
		defaultModel: defaultModel,
	}

	s.mux.HandleFunc("POST /api/chat", s.handleChat)
	s.mux.HandleFunc("GET /api/chat/history/{session_id}", s.handleGetHistory)
	s.mux.HandleFunc("DELETE /api/chat/history/{session_id}", s.handleDeleteHistory)
	s.mux.HandleFunc("GET /api/chat/sessions", s.handleListSessions)
	s.mux.HandleFunc("GET /api/chat/models", s.handleListModels)
	s.mux.HandleFunc("GET /api/chat/models/{key}", s.handleGetModel)
	s.mux.HandleFunc("GET /api/chat/quality", s.handleQuality)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return chain(s.mux, recoveryMiddleware, loggingMiddleware)
}

// Run starts the server and blocks until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoCF("gateway", "Listening", map[string]interface{}{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.InfoCF("gateway", "Shutting down", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
