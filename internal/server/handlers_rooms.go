package server

import (
	"crypto/subtle"
	"errors"
	"log"
	"net/http"

	"feud-night/internal/room"
	"feud-night/internal/store"
)

// errForbidden is returned when a mutating intent carries the wrong host
// secret. The secret is the sole credential; there is no expiry or
// rotation.
var errForbidden = errors.New("host secret mismatch")

type createRoomRequest struct {
	TeamCount int `json:"team_count"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := readJSON(r.Body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.TeamCount == 0 {
		req.TeamCount = room.MinTeams
	}

	secret := newHostSecret()
	for attempt := 0; attempt < s.cfg.RoomCodeRetries; attempt++ {
		code := newRoomCode()
		err := s.store.CreateRoom(code, room.New(secret, req.TeamCount, s.store.Now()))
		if errors.Is(err, store.ErrRoomExists) {
			continue
		}
		if err != nil {
			log.Printf("room create failed room_code=%s error=%v", code, err)
			writeError(w, http.StatusInternalServerError, "failed to create room")
			return
		}
		log.Printf("room created room_code=%s", code)
		writeJSON(w, http.StatusCreated, map[string]string{
			"room_code":   code,
			"host_secret": secret,
		})
		return
	}
	writeError(w, http.StatusInternalServerError, "could not allocate a room code")
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	snap, err := s.store.GetRoom(code)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"room": roomSnapshot(snap, s.store.Now())})
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if _, err := s.verifyHost(code, hostSecret(r, "")); err != nil {
		writeRoomError(w, err)
		return
	}
	if err := s.store.DeleteRoom(code); err != nil {
		log.Printf("room delete failed room_code=%s error=%v", code, err)
		writeError(w, http.StatusInternalServerError, "failed to delete room")
		return
	}
	log.Printf("room deleted room_code=%s", code)
	w.WriteHeader(http.StatusNoContent)
}

type hostPatchRequest struct {
	HostSecret string     `json:"host_secret"`
	Patch      room.Patch `json:"patch"`
}

func (s *Server) handleHostPatch(w http.ResponseWriter, r *http.Request) {
	var req hostPatchRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	code := r.PathValue("code")
	snap, err := s.applyHostPatch(code, hostSecret(r, req.HostSecret), req.Patch)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"room": roomSnapshot(snap, s.store.Now())})
}

type statusRequest struct {
	HostSecret string      `json:"host_secret"`
	Status     room.Status `json:"status"`
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status := req.Status
	s.respondHostPatch(w, r, room.Patch{Status: &status}, req.HostSecret)
}

type roundRequest struct {
	HostSecret string `json:"host_secret"`
	Delta      int    `json:"delta"`
}

func (s *Server) handleAdjustRound(w http.ResponseWriter, r *http.Request) {
	var req roundRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	code := r.PathValue("code")
	snap, err := s.applyHostChange(code, hostSecret(r, req.HostSecret), func(rm *room.Room) error {
		rm.Round = room.Clamp(rm.Round+req.Delta, room.MinRound, room.MaxRound)
		return nil
	})
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"room": roomSnapshot(snap, s.store.Now())})
}

type multiplierRequest struct {
	HostSecret string `json:"host_secret"`
	Multiplier int    `json:"multiplier"`
}

func (s *Server) handleSetMultiplier(w http.ResponseWriter, r *http.Request) {
	var req multiplierRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	multiplier := req.Multiplier
	s.respondHostPatch(w, r, room.Patch{Multiplier: &multiplier}, req.HostSecret)
}

type teamDeltaRequest struct {
	HostSecret string `json:"host_secret"`
	Delta      int    `json:"delta"`
}

func (s *Server) handleTeamScore(w http.ResponseWriter, r *http.Request) {
	var req teamDeltaRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respondTeamChange(w, r, req.HostSecret, func(team *room.Team) {
		team.Score += req.Delta
	})
}

func (s *Server) handleTeamStrikes(w http.ResponseWriter, r *http.Request) {
	var req teamDeltaRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respondTeamChange(w, r, req.HostSecret, func(team *room.Team) {
		team.Strikes = room.Clamp(team.Strikes+req.Delta, 0, room.MaxStrikes)
	})
}

type teamNameRequest struct {
	HostSecret string `json:"host_secret"`
	Name       string `json:"name"`
}

func (s *Server) handleTeamName(w http.ResponseWriter, r *http.Request) {
	var req teamNameRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respondTeamChange(w, r, req.HostSecret, func(team *room.Team) {
		team.Name = req.Name
	})
}

func (s *Server) respondTeamChange(w http.ResponseWriter, r *http.Request, secret string, change func(*room.Team)) {
	code := r.PathValue("code")
	teamID := room.TeamID(r.PathValue("team"))
	snap, err := s.applyHostChange(code, hostSecret(r, secret), func(rm *room.Room) error {
		team := rm.Team(teamID)
		if team == nil {
			return errUnknownTeam
		}
		change(team)
		return nil
	})
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"room": roomSnapshot(snap, s.store.Now())})
}

var (
	errUnknownTeam   = errors.New("unknown team")
	errUnknownAnswer = errors.New("unknown answer slot")
)

func (s *Server) respondHostPatch(w http.ResponseWriter, r *http.Request, patch room.Patch, secret string) {
	code := r.PathValue("code")
	snap, err := s.applyHostPatch(code, hostSecret(r, secret), patch)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"room": roomSnapshot(snap, s.store.Now())})
}

// applyHostPatch is the single mutation primitive: read the current
// document, reject with errForbidden on a secret mismatch, otherwise
// merge and commit. The read-modify-write runs under the store mutex,
// but two host tabs patching from stale reads still last-write-win at
// whole-document granularity.
func (s *Server) applyHostPatch(code, secret string, patch room.Patch) (*room.Room, error) {
	return s.applyHostChange(code, secret, func(rm *room.Room) error {
		return patch.Apply(rm)
	})
}

func (s *Server) applyHostChange(code, secret string, fn func(*room.Room) error) (*room.Room, error) {
	return s.store.UpdateRoom(code, func(rm *room.Room) error {
		if subtle.ConstantTimeCompare([]byte(rm.HostSecret), []byte(secret)) != 1 {
			return errForbidden
		}
		return fn(rm)
	})
}

// verifyHost checks the secret without mutating anything and returns
// the current snapshot.
func (s *Server) verifyHost(code, secret string) (*room.Room, error) {
	snap, err := s.store.GetRoom(code)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(snap.HostSecret), []byte(secret)) != 1 {
		return nil, errForbidden
	}
	return snap, nil
}

// hostSecret resolves the credential from the request body, falling back
// to the host link's query parameter.
func hostSecret(r *http.Request, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	return r.URL.Query().Get("secret")
}

func writeRoomError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrRoomNotFound):
		writeError(w, http.StatusNotFound, "room not found")
	case errors.Is(err, errForbidden):
		writeError(w, http.StatusForbidden, "not the host")
	case errors.Is(err, errUnknownTeam):
		writeError(w, http.StatusBadRequest, "unknown team")
	case errors.Is(err, errUnknownAnswer):
		writeError(w, http.StatusBadRequest, "unknown answer slot")
	case errors.Is(err, store.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, "player not found")
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
