package store

import (
	"errors"
	"testing"
	"time"

	"feud-night/internal/room"
)

func TestUpsertPlayerPreservesTeamOnRejoin(t *testing.T) {
	s := New(nil)
	if err := s.CreateRoom("ABC234", newRoom(t)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := s.UpsertPlayer("ABC234", "p1", "Ada"); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if _, err := s.SetPlayerTeam("ABC234", "p1", room.TeamB); err != nil {
		t.Fatalf("set team failed: %v", err)
	}

	p, err := s.UpsertPlayer("ABC234", "p1", "Ada Lovelace")
	if err != nil {
		t.Fatalf("re-upsert failed: %v", err)
	}
	if p.Name != "Ada Lovelace" {
		t.Fatalf("expected updated name, got %q", p.Name)
	}
	if p.TeamID == nil || *p.TeamID != room.TeamB {
		t.Fatalf("expected team preserved on rejoin, got %v", p.TeamID)
	}
}

func TestUpsertPlayerKeepsJoinedAt(t *testing.T) {
	s := New(nil)
	if err := s.CreateRoom("ABC234", newRoom(t)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	first := time.Unix(1_700_000_000, 0).UTC()
	s.now = func() time.Time { return first }
	if _, err := s.UpsertPlayer("ABC234", "p1", "Ada"); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	later := first.Add(time.Hour)
	s.now = func() time.Time { return later }
	p, err := s.UpsertPlayer("ABC234", "p1", "Ada")
	if err != nil {
		t.Fatalf("re-upsert failed: %v", err)
	}
	if !p.JoinedAt.Equal(first) {
		t.Fatalf("joinedAt changed on rejoin: %v", p.JoinedAt)
	}
	if !p.LastSeenAt.Equal(later) {
		t.Fatalf("lastSeenAt not refreshed: %v", p.LastSeenAt)
	}
}

func TestTouchPlayerRefreshesLastSeen(t *testing.T) {
	s := New(nil)
	if err := s.CreateRoom("ABC234", newRoom(t)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	first := time.Unix(1_700_000_000, 0).UTC()
	s.now = func() time.Time { return first }
	if _, err := s.UpsertPlayer("ABC234", "p1", "Ada"); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	later := first.Add(30 * time.Second)
	s.now = func() time.Time { return later }
	s.TouchPlayer("ABC234", "p1")

	players := s.Players("ABC234")
	if len(players) != 1 || !players[0].LastSeenAt.Equal(later) {
		t.Fatalf("unexpected players after touch: %+v", players)
	}

	// Touching an unknown player is advisory and must not panic.
	s.TouchPlayer("ABC234", "ghost")
	s.TouchPlayer("NOPE22", "p1")
}

func TestSetPlayerTeamMissingPlayer(t *testing.T) {
	s := New(nil)
	if err := s.CreateRoom("ABC234", newRoom(t)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	_, err := s.SetPlayerTeam("ABC234", "ghost", room.TeamA)
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestPlayersOrderedByJoinTime(t *testing.T) {
	s := New(nil)
	if err := s.CreateRoom("ABC234", newRoom(t)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	base := time.Unix(1_700_000_000, 0).UTC()
	for i, id := range []string{"p1", "p2", "p3"} {
		at := base.Add(time.Duration(i) * time.Second)
		s.now = func() time.Time { return at }
		if _, err := s.UpsertPlayer("ABC234", id, id); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}
	players := s.Players("ABC234")
	for i, want := range []string{"p1", "p2", "p3"} {
		if players[i].ID != want {
			t.Fatalf("unexpected order at %d: got %s want %s", i, players[i].ID, want)
		}
	}
}

func TestSubscribePlayersStreams(t *testing.T) {
	s := New(nil)
	if err := s.CreateRoom("ABC234", newRoom(t)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	ch, cancel := s.SubscribePlayers("ABC234")
	defer cancel()

	if got := recvPlayers(t, ch); len(got) != 0 {
		t.Fatalf("expected empty initial list, got %d", len(got))
	}
	if _, err := s.UpsertPlayer("ABC234", "p1", "Ada"); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if got := recvPlayers(t, ch); len(got) != 1 || got[0].Name != "Ada" {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func recvPlayers(t *testing.T, ch <-chan []room.Player) []room.Player {
	t.Helper()
	select {
	case players := <-ch:
		return players
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for player list")
		return nil
	}
}
