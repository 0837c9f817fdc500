package models

import (
	"database/sql"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a registered member of the site
type User struct {
	ID           uint64 `gorm:"primaryKey"`
	Username     string `gorm:"size:150;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null" json:"-"`
	CreatedDate  time.Time
	DeletedDate  sql.NullTime
}

// SetPassword hashes the plaintext password and stores the hash on the user
func (u *User) SetPassword(password string, cost int) error {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword checks the plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}
