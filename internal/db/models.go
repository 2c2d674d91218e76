package db

import (
	"time"

	"gorm.io/datatypes"
)

// Room stores the whole room document as JSONB; the in-memory store is
// authoritative and writes through on every commit.
type Room struct {
	ID        uint           `gorm:"primaryKey"`
	Code      string         `gorm:"size:12;uniqueIndex;not null"`
	Status    string         `gorm:"size:16;not null"`
	Doc       datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

type Buzz struct {
	ID         string    `gorm:"primaryKey;size:36"`
	RoomCode   string    `gorm:"size:12;index;not null"`
	PlayerID   string    `gorm:"size:36;not null"`
	PlayerName string    `gorm:"size:64;not null"`
	TeamID     *string   `gorm:"size:1"`
	Ts         time.Time `gorm:"index;not null"`
	Seq        uint64    `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

type Player struct {
	RoomCode   string    `gorm:"primaryKey;size:12"`
	PlayerID   string    `gorm:"primaryKey;size:36"`
	Name       string    `gorm:"size:64;not null"`
	TeamID     *string   `gorm:"size:1"`
	JoinedAt   time.Time `gorm:"not null"`
	LastSeenAt time.Time `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

type Session struct {
	ID         string    `gorm:"primaryKey;size:64"`
	PlayerID   string    `gorm:"size:36"`
	PlayerName string    `gorm:"size:64"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}
