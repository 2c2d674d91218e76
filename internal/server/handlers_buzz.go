package server

import (
	"net/http"
	"strings"

	"feud-night/internal/room"
)

type buzzRequest struct {
	PlayerID   string       `json:"player_id"`
	PlayerName string       `json:"player_name"`
	TeamID     *room.TeamID `json:"team_id"`
}

// handleBuzz appends one entry to the race. The tracker itself accepts
// any well-formed submission; the closed-buzzer check here keeps a
// hostile or buggy client from racing between rounds.
func (s *Server) handleBuzz(w http.ResponseWriter, r *http.Request) {
	var req buzzRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.PlayerID) == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	if req.TeamID != nil && !room.ValidTeamID(*req.TeamID) {
		writeError(w, http.StatusBadRequest, "unknown team")
		return
	}
	code := r.PathValue("code")
	snap, err := s.store.GetRoom(code)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	if !snap.Board.BuzzerOpen {
		writeError(w, http.StatusConflict, "buzzer is closed")
		return
	}
	buzz, err := s.store.AppendBuzz(code, req.PlayerID, req.PlayerName, req.TeamID)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"buzz": buzzPayload([]room.Buzz{buzz})[0]})
}
