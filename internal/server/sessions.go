package server

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"feud-night/internal/db"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sessionStore is the per-browser identity provider: a cookie-keyed
// session holding a stable player id and the last chosen display name.
// Backed by Postgres when attached, an in-memory map otherwise.
type sessionStore struct {
	db        *gorm.DB
	mu        sync.Mutex
	sessions  map[string]sessionData
	nameSeq   int
}

type sessionData struct {
	PlayerID string
	Name     string
}

func newSessionStore(conn *gorm.DB) *sessionStore {
	return &sessionStore{
		db:       conn,
		sessions: make(map[string]sessionData),
	}
}

// EnsurePlayerID returns the browser's stable player id, minting and
// persisting one on first call.
func (s *sessionStore) EnsurePlayerID(w http.ResponseWriter, r *http.Request) string {
	id := s.ensureSessionID(w, r)
	data := s.load(id)
	if data.PlayerID != "" {
		return data.PlayerID
	}
	data.PlayerID = uuid.NewString()
	s.save(id, data)
	return data.PlayerID
}

// ResolveName applies the join-name precedence: explicit name from the
// join link, then the previously saved name, then a generated default.
// The chosen name is persisted for next time.
func (s *sessionStore) ResolveName(w http.ResponseWriter, r *http.Request, explicit string) string {
	id := s.ensureSessionID(w, r)
	data := s.load(id)

	name := strings.TrimSpace(explicit)
	if name == "" {
		name = data.Name
	}
	if name == "" {
		name = s.nextDefaultName()
	}
	if name != data.Name {
		data.Name = name
		s.save(id, data)
	}
	return name
}

func (s *sessionStore) nextDefaultName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nameSeq++
	return fmt.Sprintf("Player %d", s.nameSeq)
}

func (s *sessionStore) load(id string) sessionData {
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.sessions[id]
	}
	var record db.Session
	if err := s.db.Where("id = ?", id).First(&record).Error; err != nil {
		return sessionData{}
	}
	return sessionData{PlayerID: record.PlayerID, Name: record.PlayerName}
}

func (s *sessionStore) save(id string, data sessionData) {
	if s.db == nil {
		s.mu.Lock()
		s.sessions[id] = data
		s.mu.Unlock()
		return
	}
	record := db.Session{
		ID:         id,
		PlayerID:   data.PlayerID,
		PlayerName: data.Name,
	}
	_ = s.db.Save(&record).Error
}

func (s *sessionStore) ensureSessionID(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie("fn_session")
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := newSessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     "fn_session",
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("sess-%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("%x", buf)
}
