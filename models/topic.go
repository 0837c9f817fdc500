package models

import "time"

// Topic is a named category shared across rooms
type Topic struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"size:200;uniqueIndex;not null"`
	CreatedDate time.Time
}
