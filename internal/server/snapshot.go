package server

import (
	"time"

	"feud-night/internal/room"
)

// roomSnapshot is the public view of a room document. The host secret
// never leaves the server; possession of the host link is the only
// credential. remaining_sec is derived from the timer checkpoint at the
// store clock's now so fresh observers start from a server-relative
// value.
func roomSnapshot(r *room.Room, now time.Time) map[string]any {
	teams := make([]map[string]any, 0, len(r.Teams))
	for _, team := range r.Teams {
		teams = append(teams, map[string]any{
			"id":      team.ID,
			"name":    team.Name,
			"score":   team.Score,
			"strikes": team.Strikes,
		})
	}
	answers := make([]map[string]any, 0, len(r.Board.Answers))
	for _, a := range r.Board.Answers {
		answers = append(answers, map[string]any{
			"id":       a.ID,
			"text":     a.Text,
			"points":   a.Points,
			"revealed": a.Revealed,
		})
	}
	var controlTeam any
	if r.Board.ControlTeamID != nil {
		controlTeam = *r.Board.ControlTeamID
	}
	var startedAt any
	if r.Timer.StartedAt != nil {
		startedAt = r.Timer.StartedAt.Format(time.RFC3339Nano)
	}
	return map[string]any{
		"created_at": r.CreatedAt.Format(time.RFC3339Nano),
		"status":     r.Status,
		"round":      r.Round,
		"multiplier": r.Multiplier,
		"teams":      teams,
		"timer": map[string]any{
			"duration_sec":  r.Timer.DurationSec,
			"remaining_sec": r.Timer.RemainingSec,
			"running":       r.Timer.Running,
			"started_at":    startedAt,
			"derived_sec":   room.ComputeRemaining(r.Timer, now),
		},
		"board": map[string]any{
			"question":        r.Board.Question,
			"answers":         answers,
			"control_team_id": controlTeam,
			"buzzer_open":     r.Board.BuzzerOpen,
		},
	}
}

func buzzPayload(entries []room.Buzz) []map[string]any {
	out := make([]map[string]any, 0, len(entries))
	for _, b := range entries {
		var teamID any
		if b.TeamID != nil {
			teamID = *b.TeamID
		}
		out = append(out, map[string]any{
			"id":          b.ID,
			"player_id":   b.PlayerID,
			"player_name": b.PlayerName,
			"team_id":     teamID,
			"ts":          b.Ts.Format(time.RFC3339Nano),
		})
	}
	return out
}

func playerPayload(players []room.Player) []map[string]any {
	out := make([]map[string]any, 0, len(players))
	for _, p := range players {
		var teamID any
		if p.TeamID != nil {
			teamID = *p.TeamID
		}
		out = append(out, map[string]any{
			"id":           p.ID,
			"name":         p.Name,
			"team_id":      teamID,
			"joined_at":    p.JoinedAt.Format(time.RFC3339Nano),
			"last_seen_at": p.LastSeenAt.Format(time.RFC3339Nano),
		})
	}
	return out
}
