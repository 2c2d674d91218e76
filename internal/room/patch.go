package room

import (
	"errors"
	"fmt"
)

// Patch is a partial room document. Nil fields are left untouched; set
// fields replace the stored sub-record wholesale, matching the
// whole-record merge granularity of the store. Numeric fields are clamped
// rather than rejected wherever a sane default exists.
type Patch struct {
	Status     *Status `json:"status,omitempty"`
	Round      *int    `json:"round,omitempty"`
	Multiplier *int    `json:"multiplier,omitempty"`
	Teams      []Team  `json:"teams,omitempty"`
	Timer      *Timer  `json:"timer,omitempty"`
	Board      *Board  `json:"board,omitempty"`
}

// Apply merges the patch into r. An invalid status, multiplier or team id
// fails the whole patch without mutating r.
func (p Patch) Apply(r *Room) error {
	if p.Status != nil && !ValidStatus(*p.Status) {
		return fmt.Errorf("invalid status %q", *p.Status)
	}
	if p.Multiplier != nil && *p.Multiplier != 1 && *p.Multiplier != 2 {
		return fmt.Errorf("invalid multiplier %d", *p.Multiplier)
	}
	if p.Teams != nil {
		for _, t := range p.Teams {
			if !ValidTeamID(t.ID) {
				return fmt.Errorf("invalid team id %q", t.ID)
			}
		}
	}
	if p.Board != nil && p.Board.ControlTeamID != nil && !ValidTeamID(*p.Board.ControlTeamID) {
		return fmt.Errorf("invalid control team %q", *p.Board.ControlTeamID)
	}
	if p.Timer != nil && p.Timer.DurationSec < 0 {
		return errors.New("invalid timer duration")
	}

	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Round != nil {
		r.Round = Clamp(*p.Round, MinRound, MaxRound)
	}
	if p.Multiplier != nil {
		r.Multiplier = *p.Multiplier
	}
	if p.Teams != nil {
		teams := append([]Team(nil), p.Teams...)
		for i := range teams {
			teams[i].Strikes = Clamp(teams[i].Strikes, 0, MaxStrikes)
		}
		r.Teams = teams
	}
	if p.Timer != nil {
		t := *p.Timer
		t.RemainingSec = Clamp(t.RemainingSec, 0, t.DurationSec)
		r.Timer = t
	}
	if p.Board != nil {
		b := *p.Board
		b.Answers = append([]Answer(nil), b.Answers...)
		r.Board = b
	}
	return nil
}
