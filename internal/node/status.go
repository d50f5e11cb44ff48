// Copyright 2026 The Genius Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package node

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/GeniusVentures/geniuscore/internal/logging"
)

// Event is one status notification pushed to connected clients: a
// transaction the node façade just enqueued.
type Event struct {
	Kind string `json:"kind"` // "enqueued" is the only kind the node emits
	Hash string `json:"hash"`
	Type string `json:"type"` // mint, transfer, escrow, escrow_release
}

// StatusServer is the node's WebSocket status surface: any Event published
// via Broadcast is fanned out to every connected client, grounded on the
// teacher's OracleAPI (internal/oracle/api.go) price-stream broadcaster.
type StatusServer struct {
	upgrader websocket.Upgrader
	wsConns  map[*websocket.Conn]bool
	wsMu     sync.RWMutex

	events chan Event
	done   chan struct{}
}

// NewStatusServer builds a StatusServer with no connections yet.
func NewStatusServer() *StatusServer {
	return &StatusServer{
		wsConns: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: checkWebSocketOrigin,
		},
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}
}

// checkWebSocketOrigin allows same-origin and localhost connections, the
// same allowlist the teacher's oracle API applies.
func checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if strings.HasPrefix(origin, "http://localhost") ||
		strings.HasPrefix(origin, "http://127.0.0.1") ||
		strings.HasPrefix(origin, "https://localhost") ||
		strings.HasPrefix(origin, "https://127.0.0.1") {
		return true
	}
	originHost := extractHost(origin)
	if originHost == "" {
		return false
	}
	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	if !strings.Contains(originHost, ":") {
		if idx := strings.LastIndex(host, ":"); idx != -1 {
			host = host[:idx]
		}
	}
	return originHost == host
}

func extractHost(urlStr string) string {
	if idx := strings.Index(urlStr, "://"); idx != -1 {
		urlStr = urlStr[idx+3:]
	}
	if idx := strings.Index(urlStr, "/"); idx != -1 {
		urlStr = urlStr[:idx]
	}
	return urlStr
}

// Start registers the /ws/status handler and serves it on addr. It
// returns once the listener fails; callers typically run it in a
// goroutine.
func (s *StatusServer) Start(addr string) error {
	logger := logging.GetLogger()
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/status", s.handleStream)

	go s.broadcastLoop()

	logger.Info("starting node status server", "addr", addr)
	return http.ListenAndServe(addr, mux)
}

// Broadcast enqueues ev for delivery to every connected client. It never
// blocks: a full event buffer drops the oldest pending event rather than
// stall the caller's commit path.
func (s *StatusServer) Broadcast(ev Event) {
	select {
	case s.events <- ev:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- ev:
		default:
		}
	}
}

// Close stops the broadcast loop and drops all connections.
func (s *StatusServer) Close() {
	close(s.done)
	s.wsMu.Lock()
	for conn := range s.wsConns {
		_ = conn.Close()
	}
	s.wsConns = make(map[*websocket.Conn]bool)
	s.wsMu.Unlock()
}

func (s *StatusServer) handleStream(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLogger()
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("status websocket upgrade failed", "error", err)
		return
	}

	s.wsMu.Lock()
	s.wsConns[conn] = true
	s.wsMu.Unlock()
	logger.Debug("status websocket client connected", "remote", conn.RemoteAddr())

	defer func() {
		s.wsMu.Lock()
		delete(s.wsConns, conn)
		s.wsMu.Unlock()
		_ = conn.Close()
		logger.Debug("status websocket client disconnected", "remote", conn.RemoteAddr())
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *StatusServer) broadcastLoop() {
	logger := logging.GetLogger()
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.events:
			var failed []*websocket.Conn
			s.wsMu.RLock()
			for conn := range s.wsConns {
				if err := conn.WriteJSON(ev); err != nil {
					logger.Debug("failed to send status update", "error", err, "remote", conn.RemoteAddr())
					failed = append(failed, conn)
				}
			}
			s.wsMu.RUnlock()
			if len(failed) > 0 {
				s.wsMu.Lock()
				for _, conn := range failed {
					delete(s.wsConns, conn)
					_ = conn.Close()
				}
				s.wsMu.Unlock()
			}
		}
	}
}

// ClientCount reports the number of connected status clients.
func (s *StatusServer) ClientCount() int {
	s.wsMu.RLock()
	defer s.wsMu.RUnlock()
	return len(s.wsConns)
}
