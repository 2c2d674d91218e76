package server

import (
	"net/http"

	"feud-night/internal/config"
	"feud-night/internal/store"

	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

type Server struct {
	store    *store.Store
	db       *gorm.DB
	cfg      config.Config
	sessions *sessionStore
	upgrader websocket.Upgrader
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	return &Server{
		store:    store.New(conn),
		db:       conn,
		cfg:      cfg,
		sessions: newSessionStore(conn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)
	mux.HandleFunc("GET /api/rooms/{code}", s.handleGetRoom)
	mux.HandleFunc("DELETE /api/rooms/{code}", s.handleDeleteRoom)
	mux.HandleFunc("POST /api/rooms/{code}/patch", s.handleHostPatch)
	mux.HandleFunc("POST /api/rooms/{code}/status", s.handleSetStatus)
	mux.HandleFunc("POST /api/rooms/{code}/round", s.handleAdjustRound)
	mux.HandleFunc("POST /api/rooms/{code}/multiplier", s.handleSetMultiplier)
	mux.HandleFunc("POST /api/rooms/{code}/teams/{team}/score", s.handleTeamScore)
	mux.HandleFunc("POST /api/rooms/{code}/teams/{team}/strikes", s.handleTeamStrikes)
	mux.HandleFunc("POST /api/rooms/{code}/teams/{team}/name", s.handleTeamName)

	mux.HandleFunc("POST /api/rooms/{code}/timer/start", s.handleTimerStart)
	mux.HandleFunc("POST /api/rooms/{code}/timer/pause", s.handleTimerPause)
	mux.HandleFunc("POST /api/rooms/{code}/timer/reset", s.handleTimerReset)
	mux.HandleFunc("POST /api/rooms/{code}/timer/duration", s.handleTimerDuration)

	mux.HandleFunc("POST /api/rooms/{code}/board/question", s.handleBoardQuestion)
	mux.HandleFunc("POST /api/rooms/{code}/board/answers", s.handleBoardAddAnswer)
	mux.HandleFunc("POST /api/rooms/{code}/board/answers/{id}", s.handleBoardAnswer)
	mux.HandleFunc("POST /api/rooms/{code}/board/control", s.handleBoardControl)
	mux.HandleFunc("POST /api/rooms/{code}/board/reset", s.handleBoardReset)
	mux.HandleFunc("POST /api/rooms/{code}/board/award", s.handleBoardAward)
	mux.HandleFunc("POST /api/rooms/{code}/board/generate", s.handleBoardGenerate)
	mux.HandleFunc("POST /api/rooms/{code}/buzzer", s.handleBuzzerOpen)

	mux.HandleFunc("POST /api/rooms/{code}/join", s.handleJoin)
	mux.HandleFunc("GET /api/rooms/{code}/players", s.handleListPlayers)
	mux.HandleFunc("POST /api/rooms/{code}/players/{id}/touch", s.handlePlayerTouch)
	mux.HandleFunc("POST /api/rooms/{code}/players/{id}/team", s.handlePlayerTeam)
	mux.HandleFunc("POST /api/rooms/{code}/buzz", s.handleBuzz)

	mux.HandleFunc("GET /ws/rooms/{code}", s.handleRoomSocket)
	mux.HandleFunc("GET /ws/rooms/{code}/buzzes", s.handleBuzzSocket)
	mux.HandleFunc("GET /ws/rooms/{code}/players", s.handlePlayerSocket)

	return mux
}
