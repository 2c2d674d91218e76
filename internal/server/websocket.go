package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 10 * time.Second

// handleRoomSocket streams room snapshots: the current one immediately,
// then every committed change, and null once the room is deleted. The
// client closing the socket cancels the store subscription.
func (s *Server) handleRoomSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	ch, cancel := s.store.SubscribeRoom(r.PathValue("code"))
	go watchClose(conn, cancel)
	defer conn.Close()

	for snap := range ch {
		payload := map[string]any{"type": "room", "room": nil}
		if snap != nil {
			payload["room"] = roomSnapshot(snap, s.store.Now())
		}
		if !writeWS(conn, payload) {
			cancel()
			return
		}
	}
}

func (s *Server) handleBuzzSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	ch, cancel := s.store.SubscribeBuzzes(r.PathValue("code"))
	go watchClose(conn, cancel)
	defer conn.Close()

	for entries := range ch {
		payload := map[string]any{"type": "buzzes", "buzzes": buzzPayload(entries)}
		if !writeWS(conn, payload) {
			cancel()
			return
		}
	}
}

func (s *Server) handlePlayerSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	ch, cancel := s.store.SubscribePlayers(r.PathValue("code"))
	go watchClose(conn, cancel)
	defer conn.Close()

	for players := range ch {
		payload := map[string]any{"type": "players", "players": playerPayload(players)}
		if !writeWS(conn, payload) {
			cancel()
			return
		}
	}
}

// watchClose drains client frames until the connection drops, then
// releases the store subscription so the writer loop unblocks.
func watchClose(conn *websocket.Conn, cancel func()) {
	defer cancel()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeWS(conn *websocket.Conn, payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		return false
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data) == nil
}
