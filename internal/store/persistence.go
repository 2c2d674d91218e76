package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"feud-night/internal/db"
	"feud-night/internal/room"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) persistRoomCreate(code string, r *room.Room) error {
	if s.db == nil {
		return nil
	}
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode room document: %w", err)
	}
	record := db.Room{
		Code:   code,
		Status: string(r.Status),
		Doc:    datatypes.JSON(doc),
	}
	result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrRoomExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRoomExists
	}
	return nil
}

func (s *Store) persistRoomUpdate(code string, r *room.Room) error {
	if s.db == nil {
		return nil
	}
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode room document: %w", err)
	}
	return s.db.Model(&db.Room{}).Where("code = ?", code).Updates(map[string]any{
		"status": string(r.Status),
		"doc":    datatypes.JSON(doc),
	}).Error
}

func (s *Store) persistRoomDelete(code string) error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Where("code = ?", code).Delete(&db.Room{}).Error; err != nil {
		return err
	}
	if err := s.db.Where("room_code = ?", code).Delete(&db.Buzz{}).Error; err != nil {
		log.Printf("buzz cleanup failed room_code=%s error=%v", code, err)
	}
	if err := s.db.Where("room_code = ?", code).Delete(&db.Player{}).Error; err != nil {
		log.Printf("player cleanup failed room_code=%s error=%v", code, err)
	}
	return nil
}

func (s *Store) persistBuzz(code string, b room.Buzz) error {
	if s.db == nil {
		return nil
	}
	record := db.Buzz{
		ID:         b.ID,
		RoomCode:   code,
		PlayerID:   b.PlayerID,
		PlayerName: b.PlayerName,
		TeamID:     teamIDString(b.TeamID),
		Ts:         b.Ts,
		Seq:        b.Seq,
	}
	return s.db.Create(&record).Error
}

func (s *Store) persistBuzzClear(code string) {
	if s.db == nil {
		return
	}
	if err := s.db.Where("room_code = ?", code).Delete(&db.Buzz{}).Error; err != nil {
		log.Printf("buzz clear failed room_code=%s error=%v", code, err)
	}
}

func (s *Store) persistPlayer(code string, p room.Player) error {
	if s.db == nil {
		return nil
	}
	record := db.Player{
		RoomCode:   code,
		PlayerID:   p.ID,
		Name:       p.Name,
		TeamID:     teamIDString(p.TeamID),
		JoinedAt:   p.JoinedAt,
		LastSeenAt: p.LastSeenAt,
	}
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&record).Error
}

func (s *Store) persistPlayerTouch(code string, p room.Player) {
	if s.db == nil {
		return
	}
	err := s.db.Model(&db.Player{}).
		Where("room_code = ? AND player_id = ?", code, p.ID).
		Update("last_seen_at", p.LastSeenAt).Error
	if err != nil {
		log.Printf("player touch persist failed room_code=%s player_id=%s error=%v", code, p.ID, err)
	}
}

// restoreRoom rebuilds a room and its sub-collections from Postgres
// after a process restart.
func (s *Store) restoreRoom(code string) (*room.Room, bool) {
	if s.db == nil {
		return nil, false
	}
	var record db.Room
	if err := s.db.Where("code = ?", code).First(&record).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("room restore failed room_code=%s error=%v", code, err)
		}
		return nil, false
	}
	var r room.Room
	if err := json.Unmarshal(record.Doc, &r); err != nil {
		log.Printf("room document decode failed room_code=%s error=%v", code, err)
		return nil, false
	}
	s.restoreBuzzes(code)
	s.restorePlayers(code)
	return &r, true
}

func (s *Store) restoreBuzzes(code string) {
	var records []db.Buzz
	if err := s.db.Where("room_code = ?", code).Order("ts asc, seq asc").Find(&records).Error; err != nil {
		log.Printf("buzz restore failed room_code=%s error=%v", code, err)
		return
	}
	if len(records) == 0 {
		return
	}
	entries := make([]room.Buzz, 0, len(records))
	for _, rec := range records {
		if rec.Seq > s.seq {
			s.seq = rec.Seq
		}
		entries = append(entries, room.Buzz{
			ID:         rec.ID,
			PlayerID:   rec.PlayerID,
			PlayerName: rec.PlayerName,
			TeamID:     teamIDFromString(rec.TeamID),
			Ts:         rec.Ts,
			Seq:        rec.Seq,
		})
	}
	s.buzzes[code] = entries
}

func (s *Store) restorePlayers(code string) {
	var records []db.Player
	if err := s.db.Where("room_code = ?", code).Find(&records).Error; err != nil {
		log.Printf("player restore failed room_code=%s error=%v", code, err)
		return
	}
	if len(records) == 0 {
		return
	}
	group := make(map[string]*room.Player, len(records))
	for _, rec := range records {
		group[rec.PlayerID] = &room.Player{
			ID:         rec.PlayerID,
			Name:       rec.Name,
			TeamID:     teamIDFromString(rec.TeamID),
			JoinedAt:   rec.JoinedAt,
			LastSeenAt: rec.LastSeenAt,
		}
	}
	s.players[code] = group
}

func teamIDString(id *room.TeamID) *string {
	if id == nil {
		return nil
	}
	v := string(*id)
	return &v
}

func teamIDFromString(v *string) *room.TeamID {
	if v == nil {
		return nil
	}
	id := room.TeamID(*v)
	return &id
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
