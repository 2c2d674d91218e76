package store

import (
	"sort"

	"feud-night/internal/room"
)

// UpsertPlayer creates or merges a player record. Re-joining updates the
// name and refreshes lastSeenAt but preserves any team assignment.
func (s *Store) UpsertPlayer(code, playerID, name string) (room.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.loadRoomLocked(code); !ok {
		return room.Player{}, ErrRoomNotFound
	}
	now := s.now()
	group := s.players[code]
	if group == nil {
		group = make(map[string]*room.Player)
		s.players[code] = group
	}
	p, ok := group[playerID]
	if !ok {
		p = &room.Player{ID: playerID, JoinedAt: now}
		group[playerID] = p
	}
	p.Name = name
	p.LastSeenAt = now
	if err := s.persistPlayer(code, *p); err != nil {
		return room.Player{}, err
	}
	s.publishPlayersLocked(code)
	return *p, nil
}

// TouchPlayer refreshes lastSeenAt. Presence is advisory; missing
// records and persistence failures are swallowed.
func (s *Store) TouchPlayer(code, playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[code][playerID]
	if !ok {
		return
	}
	p.LastSeenAt = s.now()
	s.persistPlayerTouch(code, *p)
	s.publishPlayersLocked(code)
}

// SetPlayerTeam assigns the player to a team and refreshes lastSeenAt.
func (s *Store) SetPlayerTeam(code, playerID string, teamID room.TeamID) (room.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[code][playerID]
	if !ok {
		return room.Player{}, ErrPlayerNotFound
	}
	id := teamID
	p.TeamID = &id
	p.LastSeenAt = s.now()
	if err := s.persistPlayer(code, *p); err != nil {
		return room.Player{}, err
	}
	s.publishPlayersLocked(code)
	return *p, nil
}

// Players lists the room's players ordered by join time.
func (s *Store) Players(code string) []room.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerListLocked(code)
}

func (s *Store) playerListLocked(code string) []room.Player {
	group := s.players[code]
	out := make([]room.Player, 0, len(group))
	for _, p := range group {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out
}

type playerSub struct {
	ch chan []room.Player
}

// SubscribePlayers delivers the full player list immediately and on
// every change.
func (s *Store) SubscribePlayers(code string) (<-chan []room.Player, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := &playerSub{ch: make(chan []room.Player, 1)}
	subs := s.playerSubs[code]
	if subs == nil {
		subs = make(map[*playerSub]struct{})
		s.playerSubs[code] = subs
	}
	subs[sub] = struct{}{}
	sub.push(s.playerListLocked(code))

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if group, ok := s.playerSubs[code]; ok {
			if _, live := group[sub]; live {
				delete(group, sub)
				close(sub.ch)
			}
			if len(group) == 0 {
				delete(s.playerSubs, code)
			}
		}
	}
	return sub.ch, cancel
}

func (sub *playerSub) push(players []room.Player) {
	for {
		select {
		case sub.ch <- players:
			return
		default:
			select {
			case <-sub.ch:
			default:
			}
		}
	}
}

func (s *Store) publishPlayersLocked(code string) {
	subs := s.playerSubs[code]
	if len(subs) == 0 {
		return
	}
	for sub := range subs {
		sub.push(s.playerListLocked(code))
	}
}
