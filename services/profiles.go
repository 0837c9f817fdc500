package services

import (
	"fmt"

	"github.com/godocompany/roomboard/models"
	"gorm.io/gorm"
)

// Profile is everything shown on a user's profile page
type Profile struct {
	User     *models.User
	Rooms    []*models.Room
	Messages []*models.Message
	Topics   []*models.Topic
}

// ProfilesService builds read-only views of a user's activity
type ProfilesService struct {
	DB *gorm.DB
}

// GetProfile gets the rooms hosted and messages written by a user, plus every topic
func (s *ProfilesService) GetProfile(userID uint64) (*Profile, error) {

	// Find the user
	accounts := AccountsService{DB: s.DB}
	user, err := accounts.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	// Rooms hosted by the user
	var rooms []*models.Room
	err = s.DB.
		Preload("Host").
		Preload("Topic").
		Where("deleted_date IS NULL").
		Where("host_id = ?", user.ID).
		Order("id").
		Find(&rooms).
		Error
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}

	// Messages written by the user
	var messages []*models.Message
	err = s.DB.
		Preload("User").
		Preload("Room").
		Where("deleted_date IS NULL").
		Where("user_id = ?", user.ID).
		Order("id").
		Find(&messages).
		Error
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	// All of the topics
	rs := RoomsService{DB: s.DB}
	topics, err := rs.ListTopics()
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}

	return &Profile{
		User:     user,
		Rooms:    rooms,
		Messages: messages,
		Topics:   topics,
	}, nil

}
