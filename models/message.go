package models

import (
	"database/sql"
	"time"
)

// Message is a single post made by a user inside a room
type Message struct {
	ID          uint64 `gorm:"primaryKey"`
	UserID      uint64 `gorm:"index;not null"`
	User        *User
	RoomID      uint64 `gorm:"index;not null"`
	Room        *Room
	Body        string `gorm:"type:text;not null"`
	CreatedDate time.Time
	UpdatedDate time.Time
	DeletedDate sql.NullTime
}
