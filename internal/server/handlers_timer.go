package server

import (
	"net/http"

	"feud-night/internal/room"
)

type timerRequest struct {
	HostSecret string `json:"host_secret"`
}

// Timer intents always stamp server time; a client's local clock never
// reaches the persisted startedAt field.
func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respondTimerChange(w, r, req.HostSecret, func(t room.Timer) room.Timer {
		return room.StartTimer(t, s.store.Now())
	})
}

func (s *Server) handleTimerPause(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respondTimerChange(w, r, req.HostSecret, func(t room.Timer) room.Timer {
		return room.PauseTimer(t, s.store.Now())
	})
}

func (s *Server) handleTimerReset(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respondTimerChange(w, r, req.HostSecret, room.ResetTimer)
}

type timerDurationRequest struct {
	HostSecret string `json:"host_secret"`
	Seconds    int    `json:"seconds"`
}

func (s *Server) handleTimerDuration(w http.ResponseWriter, r *http.Request) {
	var req timerDurationRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respondTimerChange(w, r, req.HostSecret, func(t room.Timer) room.Timer {
		return room.SetDuration(t, req.Seconds)
	})
}

func (s *Server) respondTimerChange(w http.ResponseWriter, r *http.Request, secret string, change func(room.Timer) room.Timer) {
	code := r.PathValue("code")
	snap, err := s.applyHostChange(code, hostSecret(r, secret), func(rm *room.Room) error {
		rm.Timer = change(rm.Timer)
		return nil
	})
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"room": roomSnapshot(snap, s.store.Now())})
}
