package room

import (
	"testing"
	"time"
)

func intPtr(n int) *int       { return &n }
func statusPtr(s Status) *Status { return &s }

func TestPatchApplyMergesSubRecords(t *testing.T) {
	r := New("secret", 2, time.Now().UTC())
	patch := Patch{
		Status:     statusPtr(StatusLive),
		Round:      intPtr(3),
		Multiplier: intPtr(2),
	}
	if err := patch.Apply(r); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if r.Status != StatusLive || r.Round != 3 || r.Multiplier != 2 {
		t.Fatalf("patch not applied: %+v", r)
	}
	if len(r.Teams) != 2 {
		t.Fatal("untouched sub-record changed")
	}
}

func TestPatchApplyClampsRound(t *testing.T) {
	r := New("secret", 2, time.Now().UTC())
	if err := (Patch{Round: intPtr(0)}).Apply(r); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if r.Round != MinRound {
		t.Fatalf("expected round clamped to %d, got %d", MinRound, r.Round)
	}
	if err := (Patch{Round: intPtr(99)}).Apply(r); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if r.Round != MaxRound {
		t.Fatalf("expected round clamped to %d, got %d", MaxRound, r.Round)
	}
}

func TestPatchApplyClampsStrikes(t *testing.T) {
	r := New("secret", 2, time.Now().UTC())
	teams := append([]Team(nil), r.Teams...)
	teams[0].Strikes = 7
	teams[1].Strikes = -2
	if err := (Patch{Teams: teams}).Apply(r); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if r.Teams[0].Strikes != MaxStrikes {
		t.Fatalf("expected strikes clamped to %d, got %d", MaxStrikes, r.Teams[0].Strikes)
	}
	if r.Teams[1].Strikes != 0 {
		t.Fatalf("expected strikes clamped to 0, got %d", r.Teams[1].Strikes)
	}
}

func TestPatchApplyRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		patch Patch
	}{
		{name: "bad status", patch: Patch{Status: statusPtr(Status("paused"))}},
		{name: "bad multiplier", patch: Patch{Multiplier: intPtr(3)}},
		{name: "bad team id", patch: Patch{Teams: []Team{{ID: TeamID("Z")}}}},
		{name: "bad control team", patch: Patch{Board: &Board{ControlTeamID: teamIDPtr(TeamID("Q"))}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := New("secret", 2, time.Now().UTC())
			before := *r.Clone()
			if err := tc.patch.Apply(r); err == nil {
				t.Fatal("expected error")
			}
			if r.Status != before.Status || r.Multiplier != before.Multiplier || len(r.Teams) != len(before.Teams) {
				t.Fatalf("rejected patch mutated room: %+v", r)
			}
		})
	}
}

func TestPatchApplyClampsTimerCheckpoint(t *testing.T) {
	r := New("secret", 2, time.Now().UTC())
	if err := (Patch{Timer: &Timer{DurationSec: 60, RemainingSec: 500}}).Apply(r); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if r.Timer.RemainingSec != 60 {
		t.Fatalf("expected remaining clamped to duration, got %d", r.Timer.RemainingSec)
	}
}

func teamIDPtr(id TeamID) *TeamID { return &id }
