package services

import (
	"testing"

	"github.com/godocompany/roomboard/config"
	"github.com/godocompany/roomboard/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates a migrated in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(config.OpenSQLite(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every connection to :memory: is its own database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, models.Migrate(db))
	return db
}

// mustRegister registers a user with a fixed password
func mustRegister(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	accounts := &AccountsService{DB: db, BcryptCost: bcrypt.MinCost}
	user, err := accounts.Register(username, "password123", "password123")
	require.NoError(t, err)
	return user
}

// recordingEvents captures the room events it receives
type recordingEvents struct {
	posted      []*models.Message
	deleted     []*models.Message
	deletedRoom []*models.Room
}

func (r *recordingEvents) MessagePosted(_ *models.Room, message *models.Message) {
	r.posted = append(r.posted, message)
}

func (r *recordingEvents) MessageDeleted(message *models.Message) {
	r.deleted = append(r.deleted, message)
}

func (r *recordingEvents) RoomDeleted(room *models.Room) {
	r.deletedRoom = append(r.deletedRoom, room)
}
