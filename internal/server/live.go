package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	livePushInterval = 60 * time.Second
	liveWriteTimeout = 5 * time.Second
)

var liveUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		host := strings.ToLower(strings.TrimSpace(r.Host))
		originHost := strings.ToLower(strings.TrimSpace(u.Host))
		return host == originHost
	},
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := liveUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.serveLiveConnection(conn)
}

// serveLiveConnection pushes a snapshot on connect, after every state change
// and on a slow keepalive tick.
func (s *Server) serveLiveConnection(conn *websocket.Conn) {
	defer conn.Close()

	updates, unsubscribe := s.checker.Subscribe()
	defer unsubscribe()

	if err := s.writeSnapshot(conn); err != nil {
		return
	}

	ticker := time.NewTicker(livePushInterval)
	defer ticker.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case _, ok := <-updates:
			if !ok {
				return
			}
			if err := s.writeSnapshot(conn); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.writeSnapshot(conn); err != nil {
				return
			}
		case <-done:
			return
		case <-s.closing:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
				time.Now().Add(liveWriteTimeout))
			return
		}
	}
}

func (s *Server) writeSnapshot(conn *websocket.Conn) error {
	_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
	if err := conn.WriteJSON(s.checker.Snapshot()); err != nil {
		s.logger.Debug("live write failed", zap.Error(err))
		return err
	}
	return nil
}
