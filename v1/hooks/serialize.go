package hooks

import (
	"github.com/godocompany/roomboard/models"
)

func serializeUser(user *models.User) map[string]interface{} {
	if user == nil {
		return nil
	}
	return map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
	}
}

func serializeTopic(topic *models.Topic) map[string]interface{} {
	if topic == nil {
		return nil
	}
	return map[string]interface{}{
		"id":   topic.ID,
		"name": topic.Name,
	}
}

func serializeTopics(topics []*models.Topic) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(topics))
	for _, topic := range topics {
		out = append(out, serializeTopic(topic))
	}
	return out
}

func serializeRoom(room *models.Room) map[string]interface{} {
	participants := make([]map[string]interface{}, 0, len(room.Participants))
	for _, p := range room.Participants {
		participants = append(participants, serializeUser(p))
	}
	return map[string]interface{}{
		"id":           room.ID,
		"name":         room.Name,
		"description":  room.Description,
		"host":         serializeUser(room.Host),
		"topic":        serializeTopic(room.Topic),
		"participants": participants,
		"created_date": room.CreatedDate,
		"updated_date": room.UpdatedDate,
	}
}

func serializeRooms(rooms []*models.Room) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, serializeRoom(room))
	}
	return out
}

func serializeMessage(message *models.Message) map[string]interface{} {
	return map[string]interface{}{
		"id":           message.ID,
		"room_id":      message.RoomID,
		"user":         serializeUser(message.User),
		"body":         message.Body,
		"created_date": message.CreatedDate,
	}
}

func serializeMessages(messages []*models.Message) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(messages))
	for _, message := range messages {
		out = append(out, serializeMessage(message))
	}
	return out
}
