package store

import (
	"sort"

	"feud-night/internal/room"

	"github.com/google/uuid"
)

// AppendBuzz appends one entry to the room's buzz log with a
// store-assigned timestamp and sequence number. The tracker performs no
// gameplay validation here; callers gate submissions on the buzzer being
// open.
func (s *Store) AppendBuzz(code, playerID, playerName string, teamID *room.TeamID) (room.Buzz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.loadRoomLocked(code); !ok {
		return room.Buzz{}, ErrRoomNotFound
	}
	s.seq++
	buzz := room.Buzz{
		ID:         uuid.NewString(),
		PlayerID:   playerID,
		PlayerName: playerName,
		Ts:         s.now(),
		Seq:        s.seq,
	}
	if teamID != nil {
		id := *teamID
		buzz.TeamID = &id
	}
	if err := s.persistBuzz(code, buzz); err != nil {
		return room.Buzz{}, err
	}
	entries := append(s.buzzes[code], buzz)
	sortBuzzes(entries)
	s.buzzes[code] = entries
	s.publishBuzzesLocked(code)
	return buzz, nil
}

// Buzzes returns the room's buzz log ascending by store timestamp; the
// first entry is the race winner.
func (s *Store) Buzzes(code string) []room.Buzz {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]room.Buzz(nil), s.buzzes[code]...)
}

// ClearBuzzes deletes every entry for the room. Idempotent; persistence
// failures are logged and swallowed since the next buzzer open clears
// the log again.
func (s *Store) ClearBuzzes(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearBuzzesLocked(code)
}

func (s *Store) clearBuzzesLocked(code string) {
	s.persistBuzzClear(code)
	if len(s.buzzes[code]) == 0 {
		return
	}
	delete(s.buzzes, code)
	s.publishBuzzesLocked(code)
}

type buzzSub struct {
	ch chan []room.Buzz
}

// SubscribeBuzzes delivers the full ordered buzz list immediately and on
// every change.
func (s *Store) SubscribeBuzzes(code string) (<-chan []room.Buzz, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := &buzzSub{ch: make(chan []room.Buzz, 1)}
	subs := s.buzzSubs[code]
	if subs == nil {
		subs = make(map[*buzzSub]struct{})
		s.buzzSubs[code] = subs
	}
	subs[sub] = struct{}{}
	sub.push(append([]room.Buzz(nil), s.buzzes[code]...))

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if group, ok := s.buzzSubs[code]; ok {
			if _, live := group[sub]; live {
				delete(group, sub)
				close(sub.ch)
			}
			if len(group) == 0 {
				delete(s.buzzSubs, code)
			}
		}
	}
	return sub.ch, cancel
}

func (sub *buzzSub) push(entries []room.Buzz) {
	for {
		select {
		case sub.ch <- entries:
			return
		default:
			select {
			case <-sub.ch:
			default:
			}
		}
	}
}

func (s *Store) publishBuzzesLocked(code string) {
	subs := s.buzzSubs[code]
	if len(subs) == 0 {
		return
	}
	for sub := range subs {
		sub.push(append([]room.Buzz(nil), s.buzzes[code]...))
	}
}

// sortBuzzes orders by (Ts, Seq) ascending. The sequence tie-break keeps
// the order total and stable at the store clock's resolution.
func sortBuzzes(entries []room.Buzz) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Ts.Equal(entries[j].Ts) {
			return entries[i].Seq < entries[j].Seq
		}
		return entries[i].Ts.Before(entries[j].Ts)
	})
}
