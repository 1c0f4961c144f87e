package feed

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/padview/padview/internal/config"
	"golang.org/x/time/rate"
)

// Server serves the demo feed over WebSocket plus a health endpoint.
type Server struct {
	cfg         config.FeedConfig
	broadcaster *Broadcaster
	generator   *Generator
	upgrader    websocket.Upgrader
}

// NewServer creates a server for cfg. Nothing listens until ListenAndServe.
func NewServer(cfg config.FeedConfig) *Server {
	return &Server{
		cfg:         cfg,
		broadcaster: NewBroadcaster(),
		generator:   NewGenerator(cfg.Buttons, cfg.Sticks, cfg.MalformedEvery),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Viewers are terminals, not browsers; there is no origin to
			// protect.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// SetupRoutes registers the feed socket at cfg.Path and /healthz on mux.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	if s.cfg.Path != "/healthz" {
		mux.HandleFunc(s.cfg.Path, s.handleWS)
	}
	mux.HandleFunc("/healthz", s.handleHealth)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		http.Error(w, "websocket upgrade required", http.StatusUpgradeRequired)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	log.Printf("viewer connected: %s", r.RemoteAddr)
	c := s.broadcaster.AddClient(conn)

	// Read until the viewer goes away; gorilla answers close frames.
	go func() {
		defer func() {
			s.broadcaster.RemoveClient(c)
			log.Printf("viewer disconnected: %s", r.RemoteAddr)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": s.broadcaster.ClientCount(),
	})
}

// Run emits frames at the configured rate until ctx is done.
func (s *Server) Run(ctx context.Context) {
	limiter := rate.NewLimiter(rate.Limit(s.cfg.Rate), s.cfg.Burst)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		s.broadcaster.Broadcast(s.generator.Next())
	}
}

// ListenAndServe serves the feed on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	s.SetupRoutes(mux)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.Run(ctx)
	go func() {
		<-ctx.Done()
		s.broadcaster.CloseAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("feed listening on ws://%s%s", addr, s.cfg.Path)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
