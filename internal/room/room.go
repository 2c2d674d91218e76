package room

import "time"

// Status is the room lifecycle phase. It normally progresses
// lobby -> live -> ended, but the host may move it backward.
type Status string

const (
	StatusLobby Status = "lobby"
	StatusLive  Status = "live"
	StatusEnded Status = "ended"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusLobby, StatusLive, StatusEnded:
		return true
	}
	return false
}

type TeamID string

const (
	TeamA TeamID = "A"
	TeamB TeamID = "B"
	TeamC TeamID = "C"
	TeamD TeamID = "D"
)

var allTeamIDs = []TeamID{TeamA, TeamB, TeamC, TeamD}

func ValidTeamID(id TeamID) bool {
	for _, t := range allTeamIDs {
		if t == id {
			return true
		}
	}
	return false
}

type Team struct {
	ID      TeamID `json:"id"`
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Strikes int    `json:"strikes"`
}

type Answer struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Points   int    `json:"points"`
	Revealed bool   `json:"revealed"`
}

type Board struct {
	Question      string   `json:"question"`
	Answers       []Answer `json:"answers"`
	ControlTeamID *TeamID  `json:"control_team_id"`
	BuzzerOpen    bool     `json:"buzzer_open"`
}

// Timer is a checkpointed countdown. RemainingSec is only authoritative
// while the timer is stopped; while running, observers derive the live
// value from StartedAt via ComputeRemaining.
type Timer struct {
	DurationSec  int        `json:"duration_sec"`
	RemainingSec int        `json:"remaining_sec"`
	Running      bool       `json:"running"`
	StartedAt    *time.Time `json:"started_at"`
}

type Room struct {
	CreatedAt  time.Time `json:"created_at"`
	Status     Status    `json:"status"`
	HostSecret string    `json:"host_secret"`
	Round      int       `json:"round"`
	Multiplier int       `json:"multiplier"`
	Teams      []Team    `json:"teams"`
	Timer      Timer     `json:"timer"`
	Board      Board     `json:"board"`
}

// Buzz is one entry in a room's buzz log. Ts and Seq are assigned by the
// store; ordering by (Ts, Seq) ascending is total and entry 0 wins the race.
type Buzz struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	TeamID     *TeamID   `json:"team_id"`
	Ts         time.Time `json:"ts"`
	Seq        uint64    `json:"seq"`
}

type Player struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	TeamID     *TeamID   `json:"team_id"`
	JoinedAt   time.Time `json:"joined_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

const (
	MinTeams = 2
	MaxTeams = 4

	BoardSlots = 8

	MaxStrikes = 3

	MinRound = 1
	MaxRound = 20

	DefaultTimerSec = 120
	MinTimerSec     = 10
	MaxTimerSec     = 1800
)

func Clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// DefaultTeams returns count teams A.. with zero score and strikes.
// Count is clamped to [MinTeams, MaxTeams].
func DefaultTeams(count int) []Team {
	count = Clamp(count, MinTeams, MaxTeams)
	teams := make([]Team, 0, count)
	for _, id := range allTeamIDs[:count] {
		teams = append(teams, Team{ID: id, Name: "Team " + string(id)})
	}
	return teams
}

// DefaultBoard returns a board with exactly BoardSlots blank answer slots,
// no control team and a closed buzzer.
func DefaultBoard() Board {
	answers := make([]Answer, 0, BoardSlots)
	for i := 0; i < BoardSlots; i++ {
		answers = append(answers, Answer{ID: slotID(i)})
	}
	return Board{Answers: answers}
}

func New(hostSecret string, teamCount int, now time.Time) *Room {
	return &Room{
		CreatedAt:  now,
		Status:     StatusLobby,
		HostSecret: hostSecret,
		Round:      1,
		Multiplier: 1,
		Teams:      DefaultTeams(teamCount),
		Timer: Timer{
			DurationSec:  DefaultTimerSec,
			RemainingSec: DefaultTimerSec,
		},
		Board: DefaultBoard(),
	}
}

// Clone returns a deep copy safe to hand to subscribers.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	out := *r
	out.Teams = append([]Team(nil), r.Teams...)
	out.Board.Answers = append([]Answer(nil), r.Board.Answers...)
	if r.Board.ControlTeamID != nil {
		id := *r.Board.ControlTeamID
		out.Board.ControlTeamID = &id
	}
	if r.Timer.StartedAt != nil {
		ts := *r.Timer.StartedAt
		out.Timer.StartedAt = &ts
	}
	return &out
}

// Team returns a pointer into r.Teams for the given id, or nil.
func (r *Room) Team(id TeamID) *Team {
	for i := range r.Teams {
		if r.Teams[i].ID == id {
			return &r.Teams[i]
		}
	}
	return nil
}
