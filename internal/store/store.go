package store

import (
	"sync"
	"time"

	"feud-night/internal/room"

	"gorm.io/gorm"
)

// Store is the authoritative room document store. State lives in memory
// guarded by a single mutex and is written through to Postgres when a
// connection is attached; a nil *gorm.DB runs the store memory-only.
// Every commit fans the new snapshot out to subscribers, including the
// writer's own subscription.
type Store struct {
	mu   sync.Mutex
	db   *gorm.DB
	now  func() time.Time
	seq  uint64

	rooms   map[string]*room.Room
	buzzes  map[string][]room.Buzz
	players map[string]map[string]*room.Player

	roomSubs   map[string]map[*roomSub]struct{}
	buzzSubs   map[string]map[*buzzSub]struct{}
	playerSubs map[string]map[*playerSub]struct{}
}

func New(conn *gorm.DB) *Store {
	return &Store{
		db:         conn,
		now:        timeNowUTC,
		rooms:      make(map[string]*room.Room),
		buzzes:     make(map[string][]room.Buzz),
		players:    make(map[string]map[string]*room.Player),
		roomSubs:   make(map[string]map[*roomSub]struct{}),
		buzzSubs:   make(map[string]map[*buzzSub]struct{}),
		playerSubs: make(map[string]map[*playerSub]struct{}),
	}
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}

// CreateRoom is a conditional create: a taken code fails with
// ErrRoomExists instead of overwriting the existing document.
func (s *Store) CreateRoom(code string, r *room.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.loadRoomLocked(code); ok {
		return ErrRoomExists
	}
	doc := r.Clone()
	if err := s.persistRoomCreate(code, doc); err != nil {
		return err
	}
	s.rooms[code] = doc
	s.publishRoomLocked(code)
	return nil
}

// GetRoom returns a snapshot of the room document.
func (s *Store) GetRoom(code string) (*room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.loadRoomLocked(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r.Clone(), nil
}

// UpdateRoom runs fn against a working copy of the document and commits
// the result. A failing fn leaves the stored document untouched. The
// committed snapshot is pushed to every room subscriber.
func (s *Store) UpdateRoom(code string, fn func(*room.Room) error) (*room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.loadRoomLocked(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	if err := s.persistRoomUpdate(code, next); err != nil {
		return nil, err
	}
	s.rooms[code] = next
	s.publishRoomLocked(code)
	return next.Clone(), nil
}

// DeleteRoom removes the document and its sub-collections. Room
// subscribers observe nil; buzz and player subscribers observe empty
// lists. Idempotent.
func (s *Store) DeleteRoom(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.loadRoomLocked(code); !ok {
		return nil
	}
	if err := s.persistRoomDelete(code); err != nil {
		return err
	}
	delete(s.rooms, code)
	delete(s.buzzes, code)
	delete(s.players, code)
	s.publishRoomLocked(code)
	s.publishBuzzesLocked(code)
	s.publishPlayersLocked(code)
	return nil
}

// Now returns the store clock's current instant. Timestamps used for
// ordering or elapsed-time computation come from here, never from a
// client clock.
func (s *Store) Now() time.Time {
	return s.now()
}

type roomSub struct {
	ch chan *room.Room
}

// SubscribeRoom pushes the current snapshot immediately (nil when the
// room does not exist), then pushes again on every commit, and nil once
// the room is deleted. The stream never terminates on its own; the
// returned cancel func releases it. Fast consecutive commits may
// coalesce into the latest snapshot.
func (s *Store) SubscribeRoom(code string) (<-chan *room.Room, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := &roomSub{ch: make(chan *room.Room, 1)}
	subs := s.roomSubs[code]
	if subs == nil {
		subs = make(map[*roomSub]struct{})
		s.roomSubs[code] = subs
	}
	subs[sub] = struct{}{}

	if r, ok := s.loadRoomLocked(code); ok {
		sub.push(r.Clone())
	} else {
		sub.push(nil)
	}

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if group, ok := s.roomSubs[code]; ok {
			if _, live := group[sub]; live {
				delete(group, sub)
				close(sub.ch)
			}
			if len(group) == 0 {
				delete(s.roomSubs, code)
			}
		}
	}
	return sub.ch, cancel
}

// push replaces any pending snapshot so a slow consumer always wakes to
// the latest committed state. Callers hold the store mutex, so there is
// a single producer per channel.
func (sub *roomSub) push(r *room.Room) {
	for {
		select {
		case sub.ch <- r:
			return
		default:
			select {
			case <-sub.ch:
			default:
			}
		}
	}
}

func (s *Store) publishRoomLocked(code string) {
	subs := s.roomSubs[code]
	if len(subs) == 0 {
		return
	}
	current, ok := s.rooms[code]
	for sub := range subs {
		if ok {
			sub.push(current.Clone())
		} else {
			sub.push(nil)
		}
	}
}

// loadRoomLocked resolves a room from memory, falling back to Postgres
// on a miss so rooms survive process restarts.
func (s *Store) loadRoomLocked(code string) (*room.Room, bool) {
	if r, ok := s.rooms[code]; ok {
		return r, true
	}
	r, ok := s.restoreRoom(code)
	if !ok {
		return nil, false
	}
	s.rooms[code] = r
	return r, true
}
