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

// RoomFields are the user editable fields of a room
type RoomFields struct {
	TopicName   string
	Name        string
	Description string
}

// normalize trims the fields and validates what must be present
func (f *RoomFields) normalize() error {
	f.TopicName = strings.TrimSpace(f.TopicName)
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)

	verr := &ValidationError{}
	if len(f.TopicName) == 0 {
		verr.add("Topic is required.")
	}
	if len(f.Name) == 0 {
		verr.add("Name is required.")
	}
	return verr.orNil()
}

// RoomListing is the result of a room directory search
type RoomListing struct {
	Rooms    []*models.Room
	Count    int
	Topics   []*models.Topic
	Messages []*models.Message
}

// RoomsService manages rooms and the topics they are filed under
type RoomsService struct {
	DB     *gorm.DB
	Events RoomEvents
}

// likePattern builds a LIKE pattern matching q as a literal, case-insensitive
// substring. It must be used with ESCAPE '!'.
func likePattern(q string) string {
	q = strings.ToLower(q)
	q = strings.ReplaceAll(q, "!", "!!")
	q = strings.ReplaceAll(q, "%", "!%")
	q = strings.ReplaceAll(q, "_", "!_")
	return "%" + q + "%"
}

// GetRoom gets the room with the provided id, along with its host, topic and participants
func (s *RoomsService) GetRoom(id uint64) (*models.Room, error) {
	var room models.Room
	err := s.DB.
		Preload("Host").
		Preload("Topic").
		Preload("Participants", "deleted_date IS NULL").
		Where("deleted_date IS NULL").
		Where("id = ?", id).
		First(&room).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// ListTopics gets every topic, in creation order
func (s *RoomsService) ListTopics() ([]*models.Topic, error) {
	var topics []*models.Topic
	if err := s.DB.Order("id").Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

// ListRooms finds the rooms whose topic name, name or description contains q,
// ignoring case. An empty query matches every room. The listing also carries
// every topic and the messages posted in rooms whose name contains q.
func (s *RoomsService) ListRooms(q string) (*RoomListing, error) {

	pattern := likePattern(q)

	// Find the matching rooms
	var rooms []*models.Room
	err := s.DB.
		Select("rooms.*").
		Preload("Host").
		Preload("Topic").
		Joins("JOIN topics ON topics.id = rooms.topic_id").
		Where("rooms.deleted_date IS NULL").
		Where(
			s.DB.
				Where("LOWER(topics.name) LIKE ? ESCAPE '!'", pattern).
				Or("LOWER(rooms.name) LIKE ? ESCAPE '!'", pattern).
				Or("LOWER(rooms.description) LIKE ? ESCAPE '!'", pattern),
		).
		Order("rooms.id").
		Find(&rooms).
		Error
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}

	// Get all of the topics
	topics, err := s.ListTopics()
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}

	// Get the messages posted in rooms matching by name
	var messages []*models.Message
	err = s.DB.
		Select("messages.*").
		Preload("User").
		Preload("Room").
		Joins("JOIN rooms ON rooms.id = messages.room_id").
		Where("messages.deleted_date IS NULL").
		Where("rooms.deleted_date IS NULL").
		Where("LOWER(rooms.name) LIKE ? ESCAPE '!'", pattern).
		Order("messages.id").
		Find(&messages).
		Error
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	return &RoomListing{
		Rooms:    rooms,
		Count:    len(rooms),
		Topics:   topics,
		Messages: messages,
	}, nil

}

// getOrCreateTopic returns the topic with the given name, creating it if it
// does not exist yet. The insert relies on the unique index on topics.name so
// concurrent callers never create duplicates.
func getOrCreateTopic(tx *gorm.DB, name string) (*models.Topic, error) {

	// Insert the topic, doing nothing if the name already exists
	topic := models.Topic{
		Name:        name,
		CreatedDate: time.Now(),
	}
	err := tx.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(&topic).
		Error
	if err != nil {
		return nil, fmt.Errorf("creating topic: %w", err)
	}

	// Read back whichever row holds the name
	var existing models.Topic
	if err := tx.Where("name = ?", name).First(&existing).Error; err != nil {
		return nil, fmt.Errorf("reading topic: %w", err)
	}
	return &existing, nil

}

// CreateRoom creates a room hosted by the given user
func (s *RoomsService) CreateRoom(host *models.User, fields RoomFields) (*models.Room, error) {

	// Only logged in users may host rooms
	if host == nil {
		return nil, ErrUnauthenticated
	}
	if err := fields.normalize(); err != nil {
		return nil, err
	}

	var room models.Room
	err := s.DB.Transaction(func(tx *gorm.DB) error {

		// Get or create the topic by name
		topic, err := getOrCreateTopic(tx, fields.TopicName)
		if err != nil {
			return err
		}

		// Create the room itself
		now := time.Now()
		room = models.Room{
			HostID:      host.ID,
			Host:        host,
			TopicID:     topic.ID,
			Topic:       topic,
			Name:        fields.Name,
			Description: fields.Description,
			CreatedDate: now,
			UpdatedDate: now,
		}
		return tx.Omit(clause.Associations).Create(&room).Error

	})
	if err != nil {
		return nil, err
	}
	return &room, nil

}

// ownedRoom loads the room and checks that the actor is its host
func (s *RoomsService) ownedRoom(actor *models.User, id uint64, forbidden *ForbiddenError) (*models.Room, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	room, err := s.GetRoom(id)
	if err != nil {
		return nil, err
	}
	if room.HostID != actor.ID {
		return nil, forbidden
	}
	return room, nil
}

// RoomForEdit gets a room the actor is about to edit, checking ownership
func (s *RoomsService) RoomForEdit(actor *models.User, id uint64) (*models.Room, error) {
	return s.ownedRoom(actor, id, errEditRoomForbidden)
}

// RoomForDelete gets a room the actor is about to delete, checking ownership
func (s *RoomsService) RoomForDelete(actor *models.User, id uint64) (*models.Room, error) {
	return s.ownedRoom(actor, id, errDeleteRoomForbidden)
}

// UpdateRoom changes the topic, name and description of a room owned by the
// actor. The host is never changed.
func (s *RoomsService) UpdateRoom(actor *models.User, id uint64, fields RoomFields) (*models.Room, error) {

	// Check that the actor owns the room
	room, err := s.RoomForEdit(actor, id)
	if err != nil {
		return nil, err
	}
	if err := fields.normalize(); err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {

		// Resolve the topic
		topic, err := getOrCreateTopic(tx, fields.TopicName)
		if err != nil {
			return err
		}

		// Update the room fields in place
		now := time.Now()
		err = tx.
			Model(&models.Room{}).
			Where("id = ?", room.ID).
			Updates(map[string]interface{}{
				"topic_id":     topic.ID,
				"name":         fields.Name,
				"description":  fields.Description,
				"updated_date": now,
			}).
			Error
		if err != nil {
			return fmt.Errorf("updating room: %w", err)
		}

		room.TopicID = topic.ID
		room.Topic = topic
		room.Name = fields.Name
		room.Description = fields.Description
		room.UpdatedDate = now
		return nil

	})
	if err != nil {
		return nil, err
	}
	return room, nil

}

// DeleteRoom deletes a room owned by the actor. Messages posted in the room
// are deleted along with it, and live clients are told the room is gone.
func (s *RoomsService) DeleteRoom(actor *models.User, id uint64) error {

	// Check that the actor owns the room
	room, err := s.RoomForDelete(actor, id)
	if err != nil {
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		err := tx.
			Model(&models.Room{}).
			Where("id = ?", room.ID).
			Update("deleted_date", now).
			Error
		if err != nil {
			return fmt.Errorf("deleting room: %w", err)
		}
		err = tx.
			Model(&models.Message{}).
			Where("deleted_date IS NULL").
			Where("room_id = ?", room.ID).
			Update("deleted_date", now).
			Error
		if err != nil {
			return fmt.Errorf("deleting room messages: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.Events != nil {
		s.Events.RoomDeleted(room)
	}
	return nil

}
