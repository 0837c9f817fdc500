package models

import (
	"database/sql"
	"time"
)

// Room is a discussion thread hosted by a single user and tagged with a topic
type Room struct {
	ID           uint64 `gorm:"primaryKey"`
	HostID       uint64 `gorm:"index;not null"`
	Host         *User
	TopicID      uint64 `gorm:"index;not null"`
	Topic        *Topic
	Name         string  `gorm:"size:200;not null"`
	Description  string  `gorm:"type:text"`
	Participants []*User `gorm:"many2many:room_participants"`
	CreatedDate  time.Time
	UpdatedDate  time.Time
	DeletedDate  sql.NullTime
}

// RoomParticipant links a user to a room they have posted in. The composite
// primary key keeps membership unique per room.
type RoomParticipant struct {
	RoomID      uint64 `gorm:"primaryKey"`
	UserID      uint64 `gorm:"primaryKey"`
	CreatedDate time.Time
}
