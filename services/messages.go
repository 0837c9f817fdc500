package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/godocompany/roomboard/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoomEvents receives notifications about rooms and messages after they are committed
type RoomEvents interface {
	MessagePosted(room *models.Room, message *models.Message)
	MessageDeleted(message *models.Message)
	RoomDeleted(room *models.Room)
}

// MessagesService manages the messages posted in rooms and the participant
// set that grows with them
type MessagesService struct {
	DB     *gorm.DB
	Events RoomEvents
}

// ListRoomMessages gets the messages posted in a room, oldest first
func (s *MessagesService) ListRoomMessages(roomID uint64) ([]*models.Message, error) {
	var messages []*models.Message
	err := s.DB.
		Preload("User").
		Where("deleted_date IS NULL").
		Where("room_id = ?", roomID).
		Order("id").
		Find(&messages).
		Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// GetMessage gets the message with the provided id
func (s *MessagesService) GetMessage(id uint64) (*models.Message, error) {
	var message models.Message
	err := s.DB.
		Preload("User").
		Preload("Room").
		Where("deleted_date IS NULL").
		Where("id = ?", id).
		First(&message).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &message, nil
}

// PostMessage creates a message from the actor in the room, and adds the actor
// to the room's participants if they are not already one
func (s *MessagesService) PostMessage(actor *models.User, roomID uint64, body string) (*models.Message, error) {

	if actor == nil {
		return nil, ErrUnauthenticated
	}

	// Make sure the room exists
	var room models.Room
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("id = ?", roomID).
		First(&room).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	body = strings.TrimSpace(body)
	if len(body) == 0 {
		return nil, &ValidationError{Problems: []string{"Message body is required."}}
	}

	now := time.Now()
	message := models.Message{
		UserID:      actor.ID,
		RoomID:      room.ID,
		Body:        body,
		CreatedDate: now,
		UpdatedDate: now,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {

		// Create the message
		if err := tx.Omit(clause.Associations).Create(&message).Error; err != nil {
			return fmt.Errorf("creating message: %w", err)
		}

		// Add the author to the participants. Existing rows are left alone.
		participant := models.RoomParticipant{
			RoomID:      room.ID,
			UserID:      actor.ID,
			CreatedDate: now,
		}
		err := tx.
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&participant).
			Error
		if err != nil {
			return fmt.Errorf("adding participant: %w", err)
		}
		return nil

	})
	if err != nil {
		return nil, err
	}

	message.User = actor
	message.Room = &room

	// Notify listeners now that the message is stored
	if s.Events != nil {
		s.Events.MessagePosted(&room, &message)
	}

	return &message, nil

}

// MessageForDelete gets a message the actor is about to delete, checking ownership
func (s *MessagesService) MessageForDelete(actor *models.User, id uint64) (*models.Message, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	message, err := s.GetMessage(id)
	if err != nil {
		return nil, err
	}
	if message.UserID != actor.ID {
		return nil, errDeleteMessageForbidden
	}
	return message, nil
}

// DeleteMessage deletes a message authored by the actor
func (s *MessagesService) DeleteMessage(actor *models.User, id uint64) error {

	// Check that the actor wrote the message
	message, err := s.MessageForDelete(actor, id)
	if err != nil {
		return err
	}

	// Mark it as deleted
	err = s.DB.
		Model(&models.Message{}).
		Where("id = ?", message.ID).
		Update("deleted_date", time.Now()).
		Error
	if err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}

	if s.Events != nil {
		s.Events.MessageDeleted(message)
	}
	return nil

}
