package server

import (
	"log"
	"net/http"

	"feud-night/internal/room"
)

type boardQuestionRequest struct {
	HostSecret string `json:"host_secret"`
	Text       string `json:"text"`
}

func (s *Server) handleBoardQuestion(w http.ResponseWriter, r *http.Request) {
	var req boardQuestionRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respondBoardChange(w, r, req.HostSecret, func(rm *room.Room) error {
		rm.Board.Question = req.Text
		return nil
	})
}

type boardAnswerRequest struct {
	HostSecret string  `json:"host_secret"`
	Text       *string `json:"text,omitempty"`
	Points     *int    `json:"points,omitempty"`
	Revealed   *bool   `json:"revealed,omitempty"`
}

func (s *Server) handleBoardAnswer(w http.ResponseWriter, r *http.Request) {
	var req boardAnswerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	answerID := r.PathValue("id")
	s.respondBoardChange(w, r, req.HostSecret, func(rm *room.Room) error {
		for i := range rm.Board.Answers {
			a := &rm.Board.Answers[i]
			if a.ID != answerID {
				continue
			}
			if req.Text != nil {
				a.Text = *req.Text
			}
			if req.Points != nil {
				points := *req.Points
				if points < 0 {
					points = 0
				}
				a.Points = points
			}
			if req.Revealed != nil {
				a.Revealed = *req.Revealed
			}
			return nil
		}
		return errUnknownAnswer
	})
}

func (s *Server) handleBoardAddAnswer(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respondBoardChange(w, r, req.HostSecret, func(rm *room.Room) error {
		rm.Board = room.AddAnswerSlot(rm.Board)
		return nil
	})
}

type boardControlRequest struct {
	HostSecret string       `json:"host_secret"`
	TeamID     *room.TeamID `json:"team_id"`
}

func (s *Server) handleBoardControl(w http.ResponseWriter, r *http.Request) {
	var req boardControlRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respondBoardChange(w, r, req.HostSecret, func(rm *room.Room) error {
		if req.TeamID == nil {
			rm.Board.ControlTeamID = nil
			return nil
		}
		if rm.Team(*req.TeamID) == nil {
			return errUnknownTeam
		}
		id := *req.TeamID
		rm.Board.ControlTeamID = &id
		return nil
	})
}

// handleBoardReset blanks the board and clears the buzz log. The two
// writes are not atomic across collaborators; a stale buzz log after a
// crash is repaired by the next buzzer open.
func (s *Server) handleBoardReset(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	code := r.PathValue("code")
	snap, err := s.applyHostChange(code, hostSecret(r, req.HostSecret), func(rm *room.Room) error {
		rm.Board = room.ResetBoardValues(rm.Board)
		return nil
	})
	if err != nil {
		writeRoomError(w, err)
		return
	}
	s.store.ClearBuzzes(code)
	writeJSON(w, http.StatusOK, map[string]any{"room": roomSnapshot(snap, s.store.Now())})
}

// handleBoardAward sums revealed points times the multiplier and adds
// the total to the control team. No control team or a zero sum is a
// no-op with no write at all.
func (s *Server) handleBoardAward(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	code := r.PathValue("code")
	secret := hostSecret(r, req.HostSecret)

	current, err := s.verifyHost(code, secret)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	total := room.RevealedPoints(current.Board, current.Multiplier)
	if current.Board.ControlTeamID == nil || total == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"awarded": 0,
			"room":    roomSnapshot(current, s.store.Now()),
		})
		return
	}

	awarded := 0
	snap, err := s.applyHostChange(code, secret, func(rm *room.Room) error {
		awarded = room.RevealedPoints(rm.Board, rm.Multiplier)
		if rm.Board.ControlTeamID == nil || awarded == 0 {
			awarded = 0
			return nil
		}
		team := rm.Team(*rm.Board.ControlTeamID)
		if team == nil {
			return errUnknownTeam
		}
		team.Score += awarded
		return nil
	})
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"awarded": awarded,
		"room":    roomSnapshot(snap, s.store.Now()),
	})
}

type buzzerRequest struct {
	HostSecret string `json:"host_secret"`
	Open       bool   `json:"open"`
}

// handleBuzzerOpen toggles the buzzer. Opening always clears the buzz
// log first so no buzz from a previous round can win the new race.
func (s *Server) handleBuzzerOpen(w http.ResponseWriter, r *http.Request) {
	var req buzzerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	code := r.PathValue("code")
	secret := hostSecret(r, req.HostSecret)
	if req.Open {
		if _, err := s.verifyHost(code, secret); err != nil {
			writeRoomError(w, err)
			return
		}
		s.store.ClearBuzzes(code)
	}
	snap, err := s.applyHostChange(code, secret, func(rm *room.Room) error {
		rm.Board.BuzzerOpen = req.Open
		return nil
	})
	if err != nil {
		writeRoomError(w, err)
		return
	}
	if req.Open {
		log.Printf("buzzer opened room_code=%s", code)
	}
	writeJSON(w, http.StatusOK, map[string]any{"room": roomSnapshot(snap, s.store.Now())})
}

func (s *Server) handleBoardGenerate(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	code := r.PathValue("code")
	secret := hostSecret(r, req.HostSecret)
	if _, err := s.verifyHost(code, secret); err != nil {
		writeRoomError(w, err)
		return
	}

	generated, err := s.generateQuestion(r.Context())
	if err != nil {
		log.Printf("question generation failed room_code=%s error=%v", code, err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	snap, err := s.applyHostChange(code, secret, func(rm *room.Room) error {
		rm.Board = room.ApplyGeneratedAnswers(rm.Board, generated.Question, generated.Answers)
		return nil
	})
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"room": roomSnapshot(snap, s.store.Now())})
}

func (s *Server) respondBoardChange(w http.ResponseWriter, r *http.Request, secret string, fn func(*room.Room) error) {
	code := r.PathValue("code")
	snap, err := s.applyHostChange(code, hostSecret(r, secret), fn)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"room": roomSnapshot(snap, s.store.Now())})
}
