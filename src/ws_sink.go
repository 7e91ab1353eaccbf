package aisrx

/*------------------------------------------------------------------
 *
 * Purpose:	Broadcast sentences to web clients over WebSocket, for
 *		browser-based plotters. Not present in the teacher;
 *		grounded on the gorilla/websocket + google/uuid pairing
 *		used elsewhere in the retrieval pack for per-connection
 *		session identification.
 *
 *------------------------------------------------------------------*/

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/charmbracelet/log"
)

// WSSink runs a WebSocket broadcast server: every upgraded connection
// receives every sentence sent through it.
type WSSink struct {
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[uuid.UUID]*websocket.Conn
}

// NewWSSink builds a sink; callers mount its ServeHTTP at the desired path
// and serve it alongside an *http.Server.
func NewWSSink(logger *log.Logger) *WSSink {
	return &WSSink{
		logger:   logger,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024}, //nolint:exhaustruct
		conns:    make(map[uuid.UUID]*websocket.Conn),
	}
}

// ServeHTTP upgrades the connection and registers it as a broadcast target
// until it closes.
func (s *WSSink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var conn, err = s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("websocket upgrade failed", "err", err)
		}
		return
	}

	var id = uuid.New()

	s.mu.Lock()
	s.conns[id] = conn
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("websocket client connected", "session", id)
	}

	go s.drainUntilClosed(id, conn)
}

// drainUntilClosed discards client reads (this is a broadcast-only feed)
// and deregisters the connection once the client disconnects.
func (s *WSSink) drainUntilClosed(id uuid.UUID, conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mu.Lock()
	delete(s.conns, id)
	s.mu.Unlock()
	_ = conn.Close()
}

// Send writes sentence to every connected client as a text message.
func (s *WSSink) Send(sentence string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, conn := range s.conns {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(sentence)); err != nil {
			_ = conn.Close()
			delete(s.conns, id)
		}
	}
	return nil
}
