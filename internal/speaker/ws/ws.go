// Package ws broadcasts prompts to connected UI clients over websockets,
// mirroring everything the assistant says to a browser frontend.
package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/crimson-sun/pennyworth/internal/model"
)

const writeTimeout = 5 * time.Second

// Speaker accepts websocket clients and fans every prompt out to all of
// them. Clients that fail a write are dropped.
type Speaker struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]bool

	server *http.Server
	log    *slog.Logger
}

// New creates a websocket speaker. When addr is non-empty an HTTP server is
// started on it, serving the websocket endpoint at /ws.
func New(addr string) *Speaker {
	s := &Speaker{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]bool),
		log:     slog.Default().With("component", "ws"),
	}

	if addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/ws", s.Handler())
		s.server = &http.Server{Addr: addr, Handler: mux}
		go func() {
			if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Error("websocket server failed", "error", err)
			}
		}()
	}
	return s
}

// Handler returns the HTTP handler that upgrades connections and registers
// clients.
func (s *Speaker) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.log.Warn("websocket upgrade failed", "error", err)
			return
		}

		s.mu.Lock()
		s.clients[conn] = true
		s.mu.Unlock()
		s.log.Info("client connected", "remote", conn.RemoteAddr())

		// Drain (and discard) client messages so pings and closes are
		// processed; unregister when the client goes away.
		go func() {
			defer s.drop(conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})
}

// Say broadcasts the prompt as JSON to every connected client.
func (s *Speaker) Say(_ context.Context, prompt model.Prompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(prompt); err != nil {
			s.log.Warn("dropping client after failed write",
				"remote", conn.RemoteAddr(), "error", err)
			conn.Close()
			delete(s.clients, conn)
		}
	}
	return nil
}

// Close disconnects all clients and stops the HTTP server if one is running.
func (s *Speaker) Close() error {
	s.mu.Lock()
	for conn := range s.clients {
		conn.Close()
		delete(s.clients, conn)
	}
	s.mu.Unlock()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Speaker) drop(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients[conn] {
		conn.Close()
		delete(s.clients, conn)
	}
}
