package server

import (
	"log"
	"net/http"

	"feud-night/internal/room"
)

type joinRequest struct {
	Name string `json:"name"`
}

// handleJoin upserts the browser's player record into the room. The
// player id is stable per device and browser profile; the display name
// follows join-link > saved > generated precedence.
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := readJSON(r.Body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	code := r.PathValue("code")
	playerID := s.sessions.EnsurePlayerID(w, r)
	explicit := req.Name
	if explicit == "" {
		explicit = r.URL.Query().Get("name")
	}
	name := s.sessions.ResolveName(w, r, explicit)

	player, err := s.store.UpsertPlayer(code, playerID, name)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	log.Printf("player joined room_code=%s player_id=%s name=%s", code, playerID, name)
	writeJSON(w, http.StatusOK, map[string]any{"player": playerPayload([]room.Player{player})[0]})
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if _, err := s.store.GetRoom(code); err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": playerPayload(s.store.Players(code))})
}

// handlePlayerTouch refreshes presence. Best-effort: the response is
// always 204 and store failures stay server-side.
func (s *Server) handlePlayerTouch(w http.ResponseWriter, r *http.Request) {
	s.store.TouchPlayer(r.PathValue("code"), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

type playerTeamRequest struct {
	TeamID room.TeamID `json:"team_id"`
}

func (s *Server) handlePlayerTeam(w http.ResponseWriter, r *http.Request) {
	var req playerTeamRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	code := r.PathValue("code")
	snap, err := s.store.GetRoom(code)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	if snap.Team(req.TeamID) == nil {
		writeError(w, http.StatusBadRequest, "unknown team")
		return
	}
	player, err := s.store.SetPlayerTeam(code, r.PathValue("id"), req.TeamID)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"player": playerPayload([]room.Player{player})[0]})
}
